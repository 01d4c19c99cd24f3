package scholarly

import "bytes"

const (
	fenceMarker = '-'
	// minMarkers is the smallest opening run that starts a front matter
	// block; anything shorter falls through to the other block rules.
	minMarkers = 3
	// maxCloseIndent bounds the indentation of a closing fence relative to
	// the block indent. Four spaces or more makes the line ordinary content.
	maxCloseIndent = 4
)

// Span marks the boundaries of a front matter block inside a source buffer.
type Span struct {
	// StartLine is the index of the opening fence line.
	StartLine int
	// EndLine is the inclusive index of the last line the block consumes:
	// the closing fence, or the final in-bound line when auto-closed.
	EndLine int
	// Inner is the text strictly between the fences.
	Inner []byte
	// Raw is the full block span including both fence lines.
	Raw []byte
	// Closed reports whether a closing fence was found. An auto-closed
	// block is still a valid block.
	Closed bool
}

// Scan looks for a front matter block beginning at startLine and never
// reading at or past endLineExclusive. A block can only open at line 0 with
// a marker run of at least three at column 0. When no closing fence exists
// before the bound the block auto-closes at the last in-bound line. Scan
// has no side effects: on no-match the caller is free to try other rules
// against the same lines.
func Scan(source []byte, startLine, endLineExclusive int) (Span, bool) {
	lines := splitLines(source)
	if endLineExclusive > len(lines) {
		endLineExclusive = len(lines)
	}
	if startLine != 0 || startLine >= endLineExclusive {
		return Span{}, false
	}

	opening := lines[startLine]
	run := markerRun(opening)
	if run < minMarkers {
		return Span{}, false
	}

	span := Span{StartLine: startLine}
	for ln := startLine + 1; ln < endLineExclusive; ln++ {
		if isClosingFence(lines[ln], run) {
			span.EndLine = ln
			span.Closed = true
			span.Inner = joinLines(lines[startLine+1 : ln])
			span.Raw = joinLines(lines[startLine : ln+1])
			return span, true
		}
	}

	span.EndLine = endLineExclusive - 1
	span.Inner = joinLines(lines[startLine+1 : endLineExclusive])
	span.Raw = joinLines(lines[startLine:endLineExclusive])
	return span, true
}

// ScanDocument scans an entire source buffer, using the end of the buffer
// as the auto-close bound.
func ScanDocument(source []byte) (Span, bool) {
	return Scan(source, 0, len(source)+1)
}

// HasFrontMatter is the validation-only form of Scan: it checks the opening
// fence without scanning the body.
func HasFrontMatter(source []byte) bool {
	if len(source) == 0 || source[0] != fenceMarker {
		return false
	}
	line := source
	if idx := bytes.IndexByte(source, '\n'); idx >= 0 {
		line = source[:idx+1]
	}
	return markerRun(line) >= minMarkers
}

// markerRun counts consecutive marker characters at the start of line.
func markerRun(line []byte) int {
	run := 0
	for run < len(line) && line[run] == fenceMarker {
		run++
	}
	return run
}

// isClosingFence reports whether line closes a block whose opening run was
// openRun: indent under four columns, a marker run at least as long as the
// opening one, and nothing but whitespace after it.
func isClosingFence(line []byte, openRun int) bool {
	pos, width := 0, 0
	for pos < len(line) {
		switch line[pos] {
		case ' ':
			width++
		case '\t':
			width += 4 - width%4
		default:
			if width >= maxCloseIndent {
				return false
			}
			run := markerRun(line[pos:])
			if run < openRun {
				return false
			}
			return len(bytes.TrimSpace(line[pos+run:])) == 0
		}
		if width >= maxCloseIndent {
			return false
		}
		pos++
	}
	return false
}

// splitLines splits source into lines, each retaining its trailing newline.
func splitLines(source []byte) [][]byte {
	var lines [][]byte
	for len(source) > 0 {
		idx := bytes.IndexByte(source, '\n')
		if idx < 0 {
			lines = append(lines, source)
			break
		}
		lines = append(lines, source[:idx+1])
		source = source[idx+1:]
	}
	return lines
}

func joinLines(lines [][]byte) []byte {
	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
	}
	return buf.Bytes()
}
