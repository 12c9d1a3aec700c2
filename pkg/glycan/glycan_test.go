package glycan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func grown(g *Glycan, s Monosaccharide) []string {
	var ids []string
	for _, c := range g.Grow(s) {
		ids = append(ids, c.ID)
	}
	return ids
}

func glycanOf(class Class, slots map[int]int) *Glycan {
	g := NewRoot(class)
	for slot, v := range slots {
		g.State[slot] = v
	}
	g.ID = encodeID(g.State)
	return g
}

func TestGrowComplex(t *testing.T) {
	tests := []struct {
		name  string
		state map[int]int
		sugar Monosaccharide
		want  []string
	}{
		{
			name:  "core GlcNAc",
			state: map[int]int{coreGlcNAc: 1},
			sugar: GlcNAc,
			want:  []string{stateID(Complex, map[int]int{coreGlcNAc: 2})},
		},
		{
			name:  "no mannose before chitobiose",
			state: map[int]int{coreGlcNAc: 1},
			sugar: Man,
			want:  nil,
		},
		{
			name:  "bisect and first antenna",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3},
			sugar: GlcNAc,
			want: []string{
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, bisect: 1}),
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1}),
			},
		},
		{
			name:  "second antenna after first, no bisect",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1},
			sugar: GlcNAc,
			want: []string{
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 5: 1}),
			},
		},
		{
			name:  "galactose caps antenna",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1},
			sugar: Gal,
			want: []string{
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 8: 1}),
			},
		},
		{
			name:  "sialic acid needs galactose",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1},
			sugar: NeuAc,
			want:  nil,
		},
		{
			name:  "sialic acid on galactosylated antenna",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 8: 1},
			sugar: NeuGc,
			want: []string{
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 8: 1, 20: 1}),
			},
		},
		{
			name:  "core and terminal fucose",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1},
			sugar: Fuc,
			want: []string{
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, coreFuc: 1, 4: 1}),
				stateID(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 12: 1}),
			},
		},
		{
			name:  "capped antenna takes no GlcNAc",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 5: 1, 6: 1, 7: 1, 8: 1, 12: 1},
			sugar: GlcNAc,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grown(glycanOf(Complex, tt.state), tt.sugar)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Grow(%v) mismatch (-want +got):\n%s", tt.sugar, diff)
			}
		})
	}
}

func TestGrowHybrid(t *testing.T) {
	got := grown(glycanOf(Hybrid, map[int]int{coreGlcNAc: 2, coreMan: 3}), Man)
	want := []string{stateID(Hybrid, map[int]int{coreGlcNAc: 2, coreMan: 3, hybridManBranch: 1})}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Grow(Man) mismatch (-want +got):\n%s", diff)
	}

	// A mannose arm blocks the bisecting GlcNAc
	armed := glycanOf(Hybrid, map[int]int{coreGlcNAc: 2, coreMan: 3, hybridManBranch: 1})
	got = grown(armed, GlcNAc)
	want = []string{stateID(Hybrid, map[int]int{coreGlcNAc: 2, coreMan: 3, hybridManBranch: 1, 6: 1})}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Grow(GlcNAc) mismatch (-want +got):\n%s", diff)
	}
}

func TestGrowHighMannose(t *testing.T) {
	tests := []struct {
		name  string
		state map[int]int
		sugar Monosaccharide
		want  []string
	}{
		{
			name:  "first arm",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3},
			sugar: Man,
			want:  []string{stateID(HighMannose, map[int]int{coreGlcNAc: 2, coreMan: 3, 3: 1})},
		},
		{
			name:  "second arm trails the first",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3, 3: 1},
			sugar: Man,
			want: []string{
				stateID(HighMannose, map[int]int{coreGlcNAc: 2, coreMan: 3, 3: 2}),
				stateID(HighMannose, map[int]int{coreGlcNAc: 2, coreMan: 3, 3: 1, 4: 1}),
			},
		},
		{
			name:  "fucose only before mannose",
			state: map[int]int{coreGlcNAc: 2, coreMan: 1},
			sugar: Fuc,
			want:  nil,
		},
		{
			name:  "no galactose",
			state: map[int]int{coreGlcNAc: 2, coreMan: 3},
			sugar: Gal,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := grown(glycanOf(HighMannose, tt.state), tt.sugar)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Grow(%v) mismatch (-want +got):\n%s", tt.sugar, diff)
			}
		})
	}
}

func TestSubsumes(t *testing.T) {
	full := glycanOf(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 5: 1, 8: 1, 9: 1, 16: 1})

	tests := []struct {
		name string
		part *Glycan
		want bool
	}{
		{"core", glycanOf(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3}), true},
		{"itself", full, true},
		{"extra slot", glycanOf(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, bisect: 1}), false},
		{"other class", glycanOf(HighMannose, map[int]int{coreGlcNAc: 2}), false},
		{
			"sialylated antenna with matching galactose",
			glycanOf(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 8: 1, 16: 1}),
			true,
		},
		{
			"sialylated antenna missing galactose",
			glycanOf(Complex, map[int]int{coreGlcNAc: 2, coreMan: 3, 4: 1, 16: 1}),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := full.Subsumes(tt.part); got != tt.want {
				t.Errorf("Subsumes() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseClasses(t *testing.T) {
	tests := []struct {
		in      string
		want    []Class
		wantErr bool
	}{
		{"CHM", []Class{Complex, Hybrid, HighMannose}, false},
		{"c", []Class{Complex}, false},
		{"MM", []Class{HighMannose}, false},
		{"complex,highmannose", []Class{Complex, HighMannose}, false},
		{"X", nil, true},
		{"", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClasses(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClasses() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseClasses() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
