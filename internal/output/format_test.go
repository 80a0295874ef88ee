package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/decl"
)

func testModel(t *testing.T) *binding.Model {
	t.Helper()
	nodes := []decl.Node{
		decl.Alias("natsSubscription"),
		decl.Alias("natsMsg"),
		decl.FunctionTypedef("natsMsgHandler", "void",
			decl.P("natsSubscription *", "sub"),
			decl.P("natsMsg *", "msg"),
			decl.P("void *", "closure"),
		),
		decl.Function("natsSubscription_Destroy", "void", decl.P("natsSubscription *", "sub")),
		decl.Function("natsSubscription_SetHandler", "natsStatus",
			decl.P("natsSubscription *", "sub"),
			decl.P("natsMsgHandler", "cb"),
			decl.P("void *", "closure"),
		),
		decl.Function("natsMsg_Destroy", "void", decl.P("natsMsg *", "msg")),
		decl.Function("natsMsg_Clone", "natsStatus", decl.P("natsMsg **", "copy"), decl.P("natsMsg *", "msg")),
		decl.Function("nats_Now", "int64_t"),
	}
	nodes[0].Comment = decl.Comment{Brief: "A subscription.", Raw: "/** A subscription. */"}

	m, err := binding.Build(nodes, binding.DefaultConvention())
	require.NoError(t, err)
	return m
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"cbor", FormatCBOR, false},
		{"cgf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDensity(t *testing.T) {
	d, err := ParseDensity("Dense")
	require.NoError(t, err)
	assert.Equal(t, DensityDense, d)
	assert.True(t, d.IncludesDocs())
	assert.True(t, d.IncludesSignature())

	assert.False(t, DensitySparse.IncludesSignature())

	_, err = ParseDensity("smart")
	assert.Error(t, err)
}

func TestGetFormatter(t *testing.T) {
	f, err := GetFormatter(FormatYAML)
	require.NoError(t, err)
	assert.IsType(t, &YAMLFormatter{}, f)

	f, err = GetFormatter(FormatJSON)
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	f, err = GetFormatter(FormatCBOR)
	require.NoError(t, err)
	assert.IsType(t, &CBORFormatter{}, f)
	assert.True(t, FormatCBOR.IsBinary())

	_, err = GetFormatter(Format("invalid"))
	assert.Error(t, err)

	_, err = NewFormatter("xml")
	assert.Error(t, err)
}

func TestNewModelView_Public(t *testing.T) {
	nodes := []decl.Node{
		decl.Alias("natsSubscription"),
		decl.FunctionTypedef("natsMsgHandler", "void",
			decl.P("natsSubscription *", "sub"),
			decl.P("void *", "closure"),
		),
		decl.Function("natsSubscription_Destroy", "void", decl.P("natsSubscription *", "sub")),
		decl.Function("natsSubscription_SetPendingLimits", "natsStatus",
			decl.P("natsSubscription *", "sub"),
			decl.P("int", "msgLimit"),
			decl.P("int", "bytesLimit"),
		),
		decl.Function("natsSubscription_SetHandler", "natsStatus",
			decl.P("natsSubscription *", "sub"),
			decl.P("const char *", "name"),
			decl.P("natsMsgHandler", "cb"),
			decl.P("void *", "closure"),
		),
	}
	m, err := binding.Build(nodes, binding.DefaultConvention())
	require.NoError(t, err)

	sub := NewModelView(m, DensityMedium).Namespaces[0].Classes[0]
	require.Len(t, sub.Methods, 3)
	assert.Empty(t, sub.Methods[0].Public, "receiver only")
	assert.Equal(t, []string{"int msgLimit", "int bytesLimit"}, sub.Methods[1].Public)
	assert.Equal(t, []string{"const char * name"}, sub.Methods[2].Public, "callback and closure are not public")

	sparse := NewModelView(m, DensitySparse).Namespaces[0].Classes[0]
	assert.Empty(t, sparse.Methods[1].Public)

	out, err := NewYAMLFormatter().Format(NewModelView(m, DensityMedium))
	require.NoError(t, err)
	assert.Contains(t, out, "public:\n")
}

func TestNewModelView_Medium(t *testing.T) {
	view := NewModelView(testModel(t), DensityMedium)

	require.Len(t, view.Namespaces, 2)
	nats := view.Namespaces[0]
	assert.Equal(t, "nats", nats.Name)
	assert.Equal(t, "defined(NATS_HAS_STREAMING)", view.Namespaces[1].BuildGuard)
	assert.Empty(t, view.Diagnostics, "diagnostics are dense only")

	require.Len(t, nats.Classes, 2)
	sub := nats.Classes[0]
	assert.Equal(t, "Subscription", sub.Name)
	assert.Empty(t, sub.Doc)

	set := sub.Methods[1]
	assert.Equal(t, "SetHandler", set.Name)
	assert.True(t, set.Raises)
	assert.Equal(t, "void", set.Result)
	require.Len(t, set.Parameters, 3)
	assert.Equal(t, "receiver", set.Parameters[0].Role)
	assert.Equal(t, "callback", set.Parameters[1].Role)
	assert.Equal(t, "plain", set.Parameters[2].Role)
	assert.Equal(t, "T1 *", set.Parameters[2].Forward)
	assert.Equal(t, []TemplateView{{Name: "T1", Callback: "natsMsgHandler", Qualified: "MsgHandler"}}, set.Templates)

	require.Len(t, nats.Callbacks, 1)
	cb := nats.Callbacks[0]
	assert.Equal(t, "MsgHandler", cb.Name)
	require.Len(t, cb.Parameters, 2)
	assert.Equal(t, "by_reference", cb.Parameters[0].Mode)
	assert.Equal(t, "by_move", cb.Parameters[1].Mode)
	assert.Empty(t, cb.Wraps)

	require.Len(t, nats.Functions, 1)
	assert.Equal(t, "Now", nats.Functions[0].Name)
	assert.Equal(t, "int64_t", nats.Functions[0].Result)
}

func TestNewModelView_Sparse(t *testing.T) {
	view := NewModelView(testModel(t), DensitySparse)

	set := view.Namespaces[0].Classes[0].Methods[1]
	assert.Equal(t, "SetHandler", set.Name)
	assert.Empty(t, set.Parameters)
	assert.Empty(t, set.Templates)
	assert.Empty(t, set.Result)
}

func TestNewModelView_Dense(t *testing.T) {
	view := NewModelView(testModel(t), DensityDense)

	assert.Equal(t, "A subscription.", view.Namespaces[0].Classes[0].Doc)
	assert.Equal(t, []string{"Subscription::WithoutDestruction sub_(sub)"}, view.Namespaces[0].Callbacks[0].Wraps)

	require.Len(t, view.Diagnostics, 1)
	assert.Equal(t, "natsMsg_Clone", view.Diagnostics[0].Function)
	assert.Equal(t, string(binding.ConstructorSignalMismatch), view.Diagnostics[0].Kind)
}

func TestYAMLFormatter(t *testing.T) {
	out, err := NewYAMLFormatter().Format(NewModelView(testModel(t), DensityMedium))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "namespaces:\n"), "got:\n%s", out)
	assert.Contains(t, out, "- name: nats\n")
	assert.Contains(t, out, "build_guard: defined(NATS_HAS_STREAMING)")
	assert.Contains(t, out, "invocation: natsSubscription_SetHandler(self, cb, closure)")
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSONFormatter().Format(NewModelView(testModel(t), DensityMedium))
	require.NoError(t, err)

	var decoded ModelView
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "Subscription", decoded.Namespaces[0].Classes[0].Name)
	assert.Contains(t, out, "\n  \"namespaces\": [")
}

func TestCBORFormatter_Deterministic(t *testing.T) {
	f, err := NewCBORFormatter()
	require.NoError(t, err)

	first, err := f.Format(NewModelView(testModel(t), DensityDense))
	require.NoError(t, err)
	second, err := f.Format(NewModelView(testModel(t), DensityDense))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var decoded ModelView
	require.NoError(t, DecodeCBOR([]byte(first), &decoded))
	assert.Equal(t, "MsgHandler", decoded.Namespaces[0].Callbacks[0].Name)
	assert.Equal(t, "natsMsg_Clone", decoded.Diagnostics[0].Function)
}

func TestNewDeclarationsView(t *testing.T) {
	d := binding.Normalize([]decl.Node{
		decl.Alias("natsMsg"),
		decl.FunctionTypedef("natsOnComplete", "void", decl.P("void *", "closure")),
		decl.Function("natsMsg_GetData", "const char *", decl.P("const natsMsg *", "msg")),
	}, binding.DefaultConvention())

	view := NewDeclarationsView(d)
	assert.Equal(t, []string{"natsMsg"}, view.Typedefs)
	require.Len(t, view.Functions, 1)
	assert.Equal(t, "GetData", view.Functions[0].Name)
	require.Len(t, view.FunctionTypedefs, 1)
	assert.True(t, view.FunctionTypedefs[0].Closure)
	assert.Equal(t, "void", view.FunctionTypedefs[0].Result)
}
