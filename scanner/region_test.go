package scanner

import (
	"strings"
	"testing"
)

func TestParseMapsLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOK  bool
		wantReg Region
	}{
		{
			name:   "named rw region",
			line:   "7f0000000000-7f0000001000 rw-p 00000000 00:00 0 [heap]",
			wantOK: true,
			wantReg: Region{
				Start: 0x7f0000000000, End: 0x7f0000001000,
				Readable: true, Writeable: true, Executable: false,
				Sharing: Private, Name: "[heap]",
			},
		},
		{
			name:   "shared executable with path",
			line:   "7fabc0000000-7fabc0010000 r-xs 00001000 08:01 123456 /usr/lib/libc.so.6",
			wantOK: true,
			wantReg: Region{
				Start: 0x7fabc0000000, End: 0x7fabc0010000,
				Readable: true, Writeable: false, Executable: true,
				Sharing: Shared, Name: "/usr/lib/libc.so.6",
			},
		},
		{
			name:   "anonymous region synthesizes name from start",
			line:   "600000-601000 rw-p 00000000 00:00 0",
			wantOK: true,
			wantReg: Region{
				Start: 0x600000, End: 0x601000,
				Readable: true, Writeable: true,
				Sharing: Private, Name: "0x600000",
			},
		},
		{
			name:   "stack region",
			line:   "7ffd00000000-7ffd00021000 rw-p 00000000 00:00 0 [stack]",
			wantOK: true,
			wantReg: Region{
				Start: 0x7ffd00000000, End: 0x7ffd00021000,
				Readable: true, Writeable: true,
				Sharing: Private, Name: "[stack]",
			},
		},
		{name: "garbage line", line: "not a maps line at all", wantOK: false},
		{name: "empty", line: "", wantOK: false},
		{name: "start not less than end", line: "1000-1000 rw-p 0 00:00 0", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMapsLine(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got != tt.wantReg {
				t.Errorf("got %+v, want %+v", got, tt.wantReg)
			}
		})
	}
}

func TestParseMapsReportsFailuresButKeepsGoing(t *testing.T) {
	input := strings.Join([]string{
		"7f0000000000-7f0000001000 rw-p 00000000 00:00 0 [heap]",
		"this line does not match",
		"7f0000002000-7f0000003000 r--p 00000000 00:00 0",
	}, "\n")

	regions, failures := ParseMaps(strings.NewReader(input))
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want 2", len(regions))
	}
	if len(failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(failures))
	}
	if failures[0].LineNumber != 2 {
		t.Errorf("failure line number = %d, want 2", failures[0].LineNumber)
	}
}

func TestEligibleFiltersWriteProtectedAndStack(t *testing.T) {
	raw := []Region{
		{Start: 0, End: 0x1000, Readable: true, Writeable: true, Name: "[heap]"},
		{Start: 0x1000, End: 0x2000, Readable: true, Writeable: false, Name: "/usr/lib/libc.so.6"},
		{Start: 0x2000, End: 0x3000, Readable: true, Writeable: true, Name: "[stack]"},
		{Start: 0x3000, End: 0x4000, Readable: true, Writeable: true, Name: "[anon]"},
	}

	rs := NewRegionSet(raw)
	if rs.Len() != 2 {
		t.Fatalf("got %d eligible regions, want 2", rs.Len())
	}
	for _, r := range rs.Regions() {
		if r.Name == "/usr/lib/libc.so.6" || r.Name == "[stack]" {
			t.Errorf("ineligible region %q survived filtering", r.Name)
		}
	}
}

func TestRegionSetFind(t *testing.T) {
	raw := []Region{
		{Start: 0x3000, End: 0x4000, Readable: true, Writeable: true, Name: "c"},
		{Start: 0x1000, End: 0x2000, Readable: true, Writeable: true, Name: "a"},
		{Start: 0x2000, End: 0x3000, Readable: true, Writeable: true, Name: "b"},
	}
	rs := NewRegionSet(raw)

	tests := []struct {
		addr     Address
		wantName string
		wantOK   bool
	}{
		{0x1000, "a", true},
		{0x1fff, "a", true},
		{0x2000, "b", true},
		{0x3fff, "c", true},
		{0x4000, "", false},
		{0x0fff, "", false},
	}

	for _, tt := range tests {
		region, ok := rs.Find(tt.addr)
		if ok != tt.wantOK {
			t.Fatalf("Find(%s) ok = %v, want %v", tt.addr, ok, tt.wantOK)
		}
		if ok && region.Name != tt.wantName {
			t.Errorf("Find(%s) = %q, want %q", tt.addr, region.Name, tt.wantName)
		}
	}
}
