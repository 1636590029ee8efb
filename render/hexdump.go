// Package render formats scanned bytes for a human: a colorized hex
// dump and a PNG bitmap view, both driven off raw []byte; the hex dump
// checks pointers through a caller-supplied PointerCheck rather than any
// memory-map type.
package render

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"memprobe/coloransi"
)

// PointerCheck reports whether ptr looks like a valid pointer into the
// target, so the hex dump can flag it without importing the scanner
// package's region types directly.
type PointerCheck func(ptr uint64) bool

// HexDumpOptions controls DumpToWriter's output.
type HexDumpOptions struct {
	BytesPerLine int
	GroupSize    int
	ShowASCII    bool
	ShowOffset   bool
	StartOffset  uint64
	OffsetWidth  int

	OffsetColor       coloransi.ColorCode
	HexColor          coloransi.ColorCode
	ASCIIColor        coloransi.ColorCode
	NonPrintableColor coloransi.ColorCode

	HighlightPattern         []byte
	HighlightColor           coloransi.ColorCode
	HighlightBackgroundColor coloransi.ColorCode

	ZeroColor coloransi.ColorCode

	MaxLines int

	// ShowPointers enables the trailing pointer-preview column; when
	// set, IsValidPointer is consulted for the first two 8-byte lanes of
	// each line.
	ShowPointers    bool
	IsValidPointer  PointerCheck
}

// DefaultOptions returns the baseline 16-bytes-per-line, ASCII-on dump.
func DefaultOptions() HexDumpOptions {
	return HexDumpOptions{
		BytesPerLine:             16,
		GroupSize:                1,
		ShowASCII:                true,
		ShowOffset:               true,
		OffsetWidth:              8,
		OffsetColor:              coloransi.ColorTeal,
		HexColor:                 coloransi.ColorLimeGreen,
		ASCIIColor:               coloransi.ColorWhite,
		NonPrintableColor:        coloransi.BrightBlack,
		HighlightColor:           coloransi.Yellow,
		HighlightBackgroundColor: coloransi.Black,
		ZeroColor:                coloransi.BrightBlack,
	}
}

// Dump renders data as a string.
func Dump(data []byte, options HexDumpOptions) string {
	var buf bytes.Buffer
	DumpToWriter(&buf, data, options)
	return buf.String()
}

// DumpToWriter streams a hex dump of data to w.
func DumpToWriter(w io.Writer, data []byte, options HexDumpOptions) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}
	if options.GroupSize <= 0 {
		options.GroupSize = 1
	}
	if options.OffsetWidth <= 0 {
		options.OffsetWidth = 8
	}

	lines := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lines >= options.MaxLines {
			fmt.Fprintf(w, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}
		formatLine(w, data[offset:end], uint64(offset)+options.StartOffset, options)
		lines++
	}
}

func formatLine(w io.Writer, data []byte, offset uint64, options HexDumpOptions) {
	if options.ShowOffset {
		offsetStr := fmt.Sprintf("%0"+strconv.Itoa(options.OffsetWidth)+"x", offset)
		fmt.Fprint(w, coloransi.Foreground(options.OffsetColor, offsetStr), "  ")
	}

	hexParts := formatHexValues(data, options)
	fmt.Fprint(w, strings.Join(hexParts, " "))

	if options.BytesPerLine > len(data) {
		missing := options.BytesPerLine - len(data)
		fmt.Fprint(w, strings.Repeat("   ", missing))
	}

	if options.ShowASCII {
		fmt.Fprint(w, " | ")
		formatASCII(w, data, options)
	}

	if options.ShowPointers && len(data) >= 8 {
		fmt.Fprint(w, " | ")
		ptr := binary.LittleEndian.Uint64(data[:8])
		if options.IsValidPointer != nil && options.IsValidPointer(ptr) {
			fmt.Fprintf(w, "%s ", coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr)))
		}
		if len(data) >= 16 {
			ptr2 := binary.LittleEndian.Uint64(data[8:16])
			if options.IsValidPointer != nil && options.IsValidPointer(ptr2) {
				fmt.Fprintf(w, "%s", coloransi.Foreground(coloransi.Yellow, fmt.Sprintf("0x%x", ptr2)))
			}
		}
	}

	fmt.Fprintln(w)
}

func formatASCII(w io.Writer, data []byte, options HexDumpOptions) {
	for i, b := range data {
		c := rune(b)

		highlighted := false
		if len(options.HighlightPattern) > 0 && i+len(options.HighlightPattern) <= len(data) {
			if bytes.Equal(data[i:i+len(options.HighlightPattern)], options.HighlightPattern) {
				highlighted = true
			}
		}

		switch {
		case highlighted:
			fmt.Fprint(w, coloransi.Color(options.HighlightColor, options.HighlightBackgroundColor, string(c)))
		case b == 0:
			fmt.Fprint(w, coloransi.Foreground(options.ZeroColor, "."))
		case !unicode.IsPrint(c):
			fmt.Fprint(w, coloransi.Foreground(options.NonPrintableColor, "."))
		default:
			fmt.Fprint(w, coloransi.Foreground(options.ASCIIColor, string(c)))
		}
	}
}

func formatHexValues(data []byte, options HexDumpOptions) []string {
	var result []string
	var group []string

	for i, b := range data {
		hexValue := fmt.Sprintf("%02x", b)
		color := options.HexColor
		if b == 0 {
			color = options.ZeroColor
		}

		highlighted := false
		if len(options.HighlightPattern) > 0 && i+len(options.HighlightPattern) <= len(data) {
			if bytes.Equal(data[i:i+len(options.HighlightPattern)], options.HighlightPattern) {
				highlighted = true
				color = options.HighlightColor
			}
		}

		var colored string
		if highlighted {
			colored = coloransi.Color(color, options.HighlightBackgroundColor, hexValue)
		} else {
			colored = coloransi.Foreground(color, hexValue)
		}
		group = append(group, colored)

		if (i+1)%options.GroupSize == 0 || i == len(data)-1 {
			result = append(result, strings.Join(group, ""))
			group = nil
		}
	}

	return result
}

// HexDump is a builder-style wrapper around Dump, mirroring the
// configure-then-render usage the shell command layer wants.
type HexDump struct {
	Options HexDumpOptions
}

// NewHexDump returns a HexDump with DefaultOptions.
func NewHexDump() *HexDump {
	return &HexDump{Options: DefaultOptions()}
}

func (h *HexDump) SetBytesPerLine(v int) *HexDump { h.Options.BytesPerLine = v; return h }
func (h *HexDump) SetGroupSize(v int) *HexDump    { h.Options.GroupSize = v; return h }
func (h *HexDump) SetMaxLines(v int) *HexDump     { h.Options.MaxLines = v; return h }

// EnablePointerChecking turns on the trailing pointer-preview column,
// using check to decide whether a candidate 8-byte lane looks mapped.
func (h *HexDump) EnablePointerChecking(check PointerCheck) *HexDump {
	h.Options.ShowPointers = true
	h.Options.IsValidPointer = check
	return h
}

// Dump renders data with the builder's current options.
func (h *HexDump) Dump(data []byte) string {
	return Dump(data, h.Options)
}
