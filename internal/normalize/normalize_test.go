package normalize

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/chempath/chempath/internal/api"
	"github.com/chempath/chempath/internal/chem"
	"github.com/chempath/chempath/internal/errors"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCompound_DefaultsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		raw  api.RawCompound
		want chem.Properties
	}{
		{
			name: "all missing",
			raw:  api.RawCompound{Formula: "H2O"},
			want: chem.Properties{Name: "Unknown", State: "N/A", Class: "N/A"},
		},
		{
			name: "blank strings",
			raw:  api.RawCompound{Formula: "H2O", Name: strPtr(" "), State: strPtr(""), Class: strPtr("")},
			want: chem.Properties{Name: "Unknown", State: "N/A", Class: "N/A"},
		},
		{
			name: "name only",
			raw:  api.RawCompound{Formula: "H2O", Name: strPtr("Water")},
			want: chem.Properties{Name: "Water", State: "N/A", Class: "N/A"},
		},
		{
			name: "all present",
			raw: api.RawCompound{
				Formula: "H2O", Name: strPtr("Water"), MolecularWeight: floatPtr(18.015),
				State: strPtr("liquid"), Class: strPtr("inorganic"),
			},
			want: chem.Properties{Name: "Water", MolecularWeight: floatPtr(18.015), State: "liquid", Class: "inorganic"},
		},
		{
			name: "nested missing fields",
			raw:  api.RawCompound{Formula: "H2O", Properties: &api.RawProperties{Name: strPtr("Water")}},
			want: chem.Properties{Name: "Water", State: "N/A", Class: "N/A"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compound(tt.raw)
			require.NoError(t, err)
			require.Equal(t, "H2O", got.Formula)
			if diff := cmp.Diff(tt.want, got.Properties); diff != "" {
				t.Errorf("Properties mismatch (-want +got):\n%s", diff)
			}
			require.NotEmpty(t, got.Properties.Name)
			require.NotEmpty(t, got.Properties.State)
			require.NotEmpty(t, got.Properties.Class)
		})
	}
}

func TestCompound_MissingFormula(t *testing.T) {
	_, err := Compound(api.RawCompound{Name: strPtr("Mystery")})
	require.True(t, errors.Is(err, errors.ErrMalformedResponse))
}

func TestCompound_NestedIsIdentity(t *testing.T) {
	want := chem.Compound{
		Formula: "CH3COOH",
		Properties: chem.Properties{
			Name: "Acetic acid", MolecularWeight: floatPtr(60.052), State: "liquid", Class: "carboxylic acid",
		},
	}
	raw := api.RawCompound{
		Formula: want.Formula,
		// Flat fields disagree; the nested object must win untouched.
		Name: strPtr("ignored"),
		Properties: &api.RawProperties{
			Name:            strPtr(want.Properties.Name),
			MolecularWeight: floatPtr(*want.Properties.MolecularWeight),
			State:           strPtr(want.Properties.State),
			Class:           strPtr(want.Properties.Class),
		},
	}

	got, err := Compound(raw)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nested compound changed (-want +got):\n%s", diff)
	}
}

func TestCompound_NestedPassedThroughAsSent(t *testing.T) {
	raw := api.RawCompound{
		Formula: "CH3CH2OH",
		Properties: &api.RawProperties{
			Name:            strPtr("Ethanol "),
			MolecularWeight: floatPtr(0),
			State:           strPtr(" liquid"),
		},
	}

	got, err := Compound(raw)
	require.NoError(t, err)
	want := chem.Properties{Name: "Ethanol ", MolecularWeight: floatPtr(0), State: " liquid", Class: "N/A"}
	if diff := cmp.Diff(want, got.Properties); diff != "" {
		t.Errorf("nested properties altered (-want +got):\n%s", diff)
	}

	// The same values in the flat shape are tidied.
	flatRaw := api.RawCompound{Formula: "CH3CH2OH", Name: strPtr("Ethanol "), MolecularWeight: floatPtr(0), State: strPtr(" liquid")}
	got, err = Compound(flatRaw)
	require.NoError(t, err)
	want = chem.Properties{Name: "Ethanol", State: "liquid", Class: "N/A"}
	if diff := cmp.Diff(want, got.Properties); diff != "" {
		t.Errorf("flat properties mismatch (-want +got):\n%s", diff)
	}
}

func TestCompounds_RejectsBadRecords(t *testing.T) {
	out, rejected := Compounds([]api.RawCompound{
		{Formula: "H2O"},
		{Formula: ""},
		{Formula: "CO2"},
	})
	require.Len(t, out, 2)
	require.Len(t, rejected, 1)
	require.Contains(t, rejected[0].Error(), "compounds[1]")
	require.True(t, errors.Is(rejected[0], errors.ErrMalformedResponse))
}

func rawPath(formulas []string, reagents []string, total int) api.RawPath {
	p := api.RawPath{TotalSteps: total}
	for _, f := range formulas {
		p.Compounds = append(p.Compounds, api.RawCompound{Formula: f})
	}
	for _, r := range reagents {
		p.Reactions = append(p.Reactions, api.RawReaction{Reagent: r})
	}
	return p
}

func TestPath_FlatMatchesDirectNormalization(t *testing.T) {
	flat := api.RawCompound{Formula: "C2H4O", Name: strPtr("Acetaldehyde"), State: strPtr("liquid")}
	raw := api.RawPath{
		Compounds: []api.RawCompound{
			{Formula: "CH3CH2OH", Properties: &api.RawProperties{Name: strPtr("Ethanol")}},
			flat,
		},
		Reactions:  []api.RawReaction{{Reagent: "PCC"}},
		TotalSteps: 1,
	}

	p, err := Path(raw)
	require.NoError(t, err)

	direct, err := Compound(flat)
	require.NoError(t, err)
	if diff := cmp.Diff(direct, p.Compounds[1]); diff != "" {
		t.Errorf("embedded flat compound differs from direct normalization (-direct +path):\n%s", diff)
	}
	require.Equal(t, "Ethanol", p.Compounds[0].Properties.Name)
	require.Equal(t, "N/A", p.Compounds[0].Properties.State)
}

func TestPath_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		raw     api.RawPath
		wantErr bool
	}{
		{"valid", rawPath([]string{"A", "B", "C"}, []string{"r1", "r2"}, 2), false},
		{"total steps mismatch", rawPath([]string{"A", "B", "C"}, []string{"r1", "r2"}, 3), true},
		{"reaction count mismatch", rawPath([]string{"A", "B", "C"}, []string{"r1"}, 1), true},
		{"single compound", rawPath([]string{"A"}, nil, 0), true},
		{"empty", rawPath(nil, nil, 0), true},
		{"compound without formula", rawPath([]string{"A", ""}, []string{"r1"}, 1), true},
		{"reaction without reagent", rawPath([]string{"A", "B"}, []string{""}, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Path(tt.raw)
			if tt.wantErr {
				require.True(t, errors.Is(err, errors.ErrMalformedResponse), "err = %v", err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, 2, p.TotalSteps)
			require.Len(t, p.Reactions, len(p.Compounds)-1)
		})
	}
}

func TestPath_ReactionFields(t *testing.T) {
	raw := api.RawPath{
		Compounds: []api.RawCompound{{Formula: "A"}, {Formula: "B"}},
		Reactions: []api.RawReaction{{
			Reagent: " H2SO4 ", Temperature: floatPtr(170), Pressure: floatPtr(1),
			Mechanism: strPtr("E1"), Description: strPtr("Dehydration"),
		}},
		TotalSteps: 1,
	}
	p, err := Path(raw)
	require.NoError(t, err)

	r := p.Reactions[0]
	require.Equal(t, "H2SO4", r.Reagent)
	require.Equal(t, 170.0, *r.Temperature)
	require.Equal(t, "E1", r.Mechanism)
	require.Equal(t, "Dehydration", r.Description)

	// Normalized values must not alias the raw record.
	*raw.Reactions[0].Temperature = 0
	require.Equal(t, 170.0, *p.Reactions[0].Temperature)
}

func TestPaths_IndependentReagents(t *testing.T) {
	raws := []api.RawPath{
		rawPath([]string{"CH3CH2OH", "CH3CHO", "CH3COOH"}, []string{"PCC", "KMnO4"}, 2),
		rawPath([]string{"CH3CH2OH", "CH3COOH"}, []string{"K2Cr2O7"}, 1),
	}
	// The server's own summary is not trusted.
	raws[0].Reagents = []string{"K2Cr2O7"}

	paths, rejected := Paths(raws)
	require.Empty(t, rejected)
	require.Len(t, paths, 2)
	require.Equal(t, []string{"PCC", "KMnO4"}, paths[0].Reagents)
	require.Equal(t, []string{"K2Cr2O7"}, paths[1].Reagents)
}

func TestPaths_DropsMalformed(t *testing.T) {
	paths, rejected := Paths([]api.RawPath{
		rawPath([]string{"A", "B"}, []string{"r"}, 1),
		rawPath([]string{"A", "B", "C"}, []string{"r1", "r2"}, 3),
	})
	require.Len(t, paths, 1)
	require.Len(t, rejected, 1)
	require.Contains(t, rejected[0].Error(), "paths[1]")
}

func TestReagents_Dedup(t *testing.T) {
	got := Reagents([]chem.ReactionCondition{{Reagent: "H2"}, {Reagent: "Pd"}, {Reagent: "H2"}})
	require.Equal(t, []string{"H2", "Pd"}, got)
}

func TestFormatLabel(t *testing.T) {
	require.Equal(t, "CH3COOH (Acetic acid)", FormatLabel("ch3cooh", "Acetic acid"))
	require.Equal(t, "H2O", FormatLabel("h2o", ""))
	require.Equal(t, "H2O", FormatLabel("h2o", chem.UnknownName))
}

func TestLabelRoundTrip(t *testing.T) {
	cases := []struct{ formula, name string }{
		{"CH3CH2OH", "Ethanol"},
		{"ch3cooh", "Acetic acid"},
		{"NaCl", ""},
		{"c6h12o6", "Glucose (D-)"},
		{"H2O", chem.UnknownName},
	}
	for _, c := range cases {
		label := FormatLabel(c.formula, c.name)
		if got := RecoverFormula(label); got != strings.ToUpper(c.formula) {
			t.Errorf("RecoverFormula(%q) = %q, want %q", label, got, strings.ToUpper(c.formula))
		}
	}
}

func TestLabels(t *testing.T) {
	cs := []chem.Compound{
		{Formula: "h2o", Properties: chem.Properties{Name: "Water"}},
		{Formula: "co2", Properties: chem.Properties{Name: chem.UnknownName}},
	}
	require.Equal(t, []string{"H2O (Water)", "CO2"}, Labels(cs))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 25)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		page      int
		wantFirst int
		wantLen   int
		hasMore   bool
	}{
		{1, 0, 12, true},
		{2, 12, 12, true},
		{3, 24, 1, false},
		{4, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			got, meta := Paginate(items, tt.page, 12)
			require.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				require.Equal(t, tt.wantFirst, got[0])
			}
			require.Equal(t, 3, meta.TotalPages)
			require.Equal(t, 25, meta.Total)
			require.Equal(t, tt.hasMore, meta.HasMore)
		})
	}
}

func TestPaginate_Clamps(t *testing.T) {
	items := []string{"a", "b", "c"}

	got, meta := Paginate(items, 0, 0)
	require.Equal(t, items, got)
	require.Equal(t, 1, meta.Number)
	require.Equal(t, DefaultPageSize, meta.Size)

	empty, meta := Paginate([]string(nil), 1, 12)
	require.NotNil(t, empty)
	require.Empty(t, empty)
	require.Equal(t, 0, meta.TotalPages)
}

func TestPaginate_ReturnsCopy(t *testing.T) {
	items := []int{1, 2, 3}
	got, _ := Paginate(items, 1, 2)
	got[0] = 99
	require.Equal(t, 1, items[0])
}

func TestResetPage(t *testing.T) {
	require.Equal(t, 1, ResetPage("eth", "meth", 3))
	require.Equal(t, 3, ResetPage("eth", "eth", 3))
	require.Equal(t, 1, ResetPage("eth", "eth", 0))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"404", &api.StatusError{Op: "get compound", StatusCode: 404}, errors.ErrNoResult},
		{"400", &api.StatusError{Op: "find paths", StatusCode: 400}, errors.ErrNoResult},
		{"500", &api.StatusError{Op: "find paths", StatusCode: 500}, errors.ErrUpstream},
		{"422", &api.StatusError{Op: "create compound", StatusCode: 422}, errors.ErrUpstream},
		{"decode", &api.DecodeError{Op: "list compounds", Err: fmt.Errorf("bad json")}, errors.ErrMalformedResponse},
		{"url error", fmt.Errorf("health: %w", &url.Error{Op: "Get", URL: "http://x", Err: fmt.Errorf("connection refused")}), errors.ErrConnectivity},
		{"deadline", fmt.Errorf("health: %w", context.DeadlineExceeded), errors.ErrConnectivity},
		{"chem error passthrough", errors.NewInvalidRequest("x"), errors.ErrInvalidRequest},
		{"other", fmt.Errorf("marshal request: boom"), errors.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.True(t, errors.Is(got, tt.want), "Classify() = %v, want code %s", got, tt.want)
		})
	}
}

func TestClassifyWrite(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorCode
	}{
		{"400", &api.StatusError{Op: "create compound", StatusCode: 400}, errors.ErrUpstream},
		{"404", &api.StatusError{Op: "create reaction", StatusCode: 404}, errors.ErrUpstream},
		{"500", &api.StatusError{Op: "create reaction", StatusCode: 500}, errors.ErrUpstream},
		{"decode", &api.DecodeError{Op: "create compound", Err: fmt.Errorf("bad json")}, errors.ErrMalformedResponse},
		{"url error", &url.Error{Op: "Post", URL: "http://x", Err: fmt.Errorf("connection refused")}, errors.ErrConnectivity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, errors.Is(ClassifyWrite(tt.err), tt.want), "got %v", ClassifyWrite(tt.err))
		})
	}
	require.NoError(t, ClassifyWrite(nil))
}

func TestClassify_NilAndCanceled(t *testing.T) {
	require.NoError(t, Classify(nil))

	canceled := fmt.Errorf("list compounds: %w", context.Canceled)
	require.Equal(t, canceled, Classify(canceled))
}
