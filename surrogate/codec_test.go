package surrogate_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/gwsur/surrogate"
)

// document returns the fixture's JSON form as a generic tree.
func document(t *testing.T) map[string]any {
	t.Helper()
	_, s := fixture()
	var buf bytes.Buffer
	require.NoError(t, s.WriteJSON(&buf))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	return doc
}

func firstPart(doc map[string]any) map[string]any {
	return doc["parts"].([]any)[0].(map[string]any)
}

func TestReadJSON_RejectsCorruptFields(t *testing.T) {
	t.Parallel()

	for name, mutate := range map[string]func(doc map[string]any){
		"unknown kind":      func(d map[string]any) { d["kind"] = "spline" },
		"unknown policy":    func(d map[string]any) { d["range_policy"] = "clamp" },
		"no parts":          func(d map[string]any) { d["parts"] = []any{} },
		"extra part":        func(d map[string]any) { d["parts"] = append(d["parts"].([]any), firstPart(d)) },
		"empty grid":        func(d map[string]any) { d["grid"].(map[string]any)["Len"] = 0 },
		"unknown product":   func(d map[string]any) { firstPart(d)["inner_product"] = "hermite" },
		"unknown map":       func(d map[string]any) { firstPart(d)["affine_map"] = "log" },
		"empty r":           func(d map[string]any) { firstPart(d)["r"] = []any{} },
		"ragged r":          func(d map[string]any) { firstPart(d)["r"].([]any)[1] = []any{} },
		"no norms":          func(d map[string]any) { firstPart(d)["training_norms"] = []any{} },
		"short indices":     func(d map[string]any) { firstPart(d)["greedy_indices"] = []any{0} },
		"index past norms":  func(d map[string]any) { firstPart(d)["greedy_indices"].([]any)[0] = 1e6 },
		"short params":      func(d map[string]any) { firstPart(d)["greedy_params"] = []any{} },
		"short residuals":   func(d map[string]any) { firstPart(d)["residuals"] = []any{} },
		"short element":     func(d map[string]any) { firstPart(d)["basis"].([]any)[0] = []any{[]any{1, 0}} },
		"no nodes":          func(d map[string]any) { firstPart(d)["nodes"] = []any{} },
		"node off grid":     func(d map[string]any) { firstPart(d)["nodes"].([]any)[0] = 1e6 },
		"short operator":    func(d map[string]any) { firstPart(d)["operator"] = []any{} },
		"narrow operator":   func(d map[string]any) { firstPart(d)["operator"].([]any)[0] = []any{[]any{1, 0}} },
		"empty amp fit":     func(d map[string]any) { firstPart(d)["amp_fits"].([]any)[0] = []any{} },
		"short amp fits":    func(d map[string]any) { firstPart(d)["amp_fits"] = firstPart(d)["amp_fits"].([]any)[:1] },
		"missing phase":     func(d map[string]any) { delete(firstPart(d), "phase_fits") },
		"empty norm fit":    func(d map[string]any) { firstPart(d)["norm_fit"] = []any{} },
		"inverted interval": func(d map[string]any) { firstPart(d)["param_lo"] = 5 },
		"real fits":         func(d map[string]any) { firstPart(d)["real_fits"] = true },
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			doc := document(t)
			mutate(doc)
			blob, err := json.Marshal(doc)
			require.NoError(t, err)

			var s *surrogate.Surrogate
			assert.NotPanics(t, func() { s, err = surrogate.ReadJSON(bytes.NewReader(blob)) })
			assert.ErrorIs(t, err, surrogate.ErrCorrupt)
			assert.Nil(t, s)
		})
	}
}

func TestReadJSON_UntouchedDocument(t *testing.T) {
	t.Parallel()

	_, s := fixture()
	blob, err := json.Marshal(document(t))
	require.NoError(t, err)
	back, err := surrogate.ReadJSON(bytes.NewReader(blob))
	require.NoError(t, err)
	assert.Empty(t, surrogate.Diff(s, back))
}
