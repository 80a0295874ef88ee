package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nats-io/bindgen/internal/binding"
	"github.com/nats-io/bindgen/internal/decl"
)

func clientNodes() []decl.Node {
	conn := decl.Alias("natsConnection")
	conn.Comment = decl.Comment{Brief: "A connection to a server."}

	return []decl.Node{
		conn,
		decl.Alias("natsSubscription"),
		decl.Alias("natsMsg"),
		decl.Alias("natsOptions"),
		decl.FunctionTypedef("natsMsgHandler", "void",
			decl.P("natsConnection *", "nc"),
			decl.P("natsSubscription *", "sub"),
			decl.P("natsMsg *", "msg"),
			decl.P("void *", "closure"),
		),
		decl.FunctionTypedef("natsErrHandler", "void",
			decl.P("natsConnection *", "nc"),
			decl.P("natsSubscription *", "subscription"),
			decl.P("natsStatus", "err"),
			decl.P("void *", "closure"),
		),
		decl.Function("natsOptions_Create", "natsStatus", decl.P("natsOptions **", "newOpts")),
		decl.Function("natsOptions_Destroy", "void", decl.P("natsOptions *", "opts")),
		decl.Function("natsOptions_SetErrorHandler", "natsStatus",
			decl.P("natsOptions *", "opts"),
			decl.P("natsErrHandler", "errHandler"),
			decl.P("void *", "closure"),
		),
		decl.Function("natsConnection_Destroy", "void", decl.P("natsConnection *", "nc")),
		decl.Function("natsConnection_Subscribe", "natsStatus",
			decl.P("natsSubscription **", "sub"),
			decl.P("natsConnection *", "nc"),
			decl.P("const char *", "subject"),
			decl.P("natsMsgHandler", "cb"),
			decl.P("void *", "cbClosure"),
		),
		decl.Function("natsConnection_Status", "natsConnStatus", decl.P("const natsConnection *", "nc")),
		decl.Function("natsSubscription_Destroy", "void", decl.P("natsSubscription *", "sub")),
		decl.Function("natsMsg_Destroy", "void", decl.P("natsMsg *", "msg")),
		decl.Function("natsMsg_GetSubject", "const char *", decl.P("const natsMsg *", "msg")),
		decl.Function("nats_Open", "natsStatus", decl.P("int64_t", "lockSpinCount")),
		decl.Function("nats_GetVersion", "const char *"),
		decl.Function("nats_Close", "void"),
		decl.Alias("stanConnection"),
		decl.Function("stanConnection_Destroy", "natsStatus", decl.P("stanConnection *", "sc")),
		decl.Function("stanConnection_Subscribe", "natsStatus",
			decl.P("stanConnection *", "sc"),
			decl.P("natsMsgHandler", "cb"),
			decl.P("void *", "closure"),
		),
	}
}

func renderDefault(t *testing.T) string {
	t.Helper()
	m, err := binding.Build(clientNodes(), binding.DefaultConvention())
	require.NoError(t, err)

	r, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplateName, r.Name())
	assert.Equal(t, DefaultTemplate(), r.Source())

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, m))
	return buf.String()
}

// squash collapses whitespace runs so fragments can be matched regardless of
// indentation and line breaks.
func squash(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestRender_Header(t *testing.T) {
	out := renderDefault(t)

	assert.True(t, strings.HasPrefix(out, "// Code generated by bindgen. DO NOT EDIT.\n"))
	assert.Contains(t, out, "#include <nats.h>\n")
	assert.Contains(t, out, "namespace nats {\n")
	assert.Contains(t, out, "} // namespace nats\n")
	assert.Contains(t, out, "#if defined(NATS_HAS_STREAMING)\n")
	assert.Contains(t, out, "#endif // defined(NATS_HAS_STREAMING)")
	assert.Less(t, strings.Index(out, "namespace nats {"), strings.Index(out, "namespace stan {"))
	assert.Less(t, strings.Index(out, "#if defined(NATS_HAS_STREAMING)"), strings.Index(out, "namespace stan {"))
}

func TestRender_Classes(t *testing.T) {
	out := squash(renderDefault(t))

	assert.Contains(t, out, "class Connection; class Subscription; class Msg; class Options;")
	assert.Contains(t, out, "/** A connection to a server. */ class Connection {")
	assert.Contains(t, out, "class Connection { friend class Subscription; friend class Msg; friend class Options; protected: natsConnection * self;")
	assert.Contains(t, out, "explicit Msg(natsMsg * ptr) : self(ptr) {}")
	assert.Contains(t, out, "~Connection() { if (self != nullptr) { natsConnection_Destroy(self); } }")
	assert.Contains(t, out, "class Msg::WithoutDestruction : public Msg {")
}

func TestRender_Constructor(t *testing.T) {
	out := squash(renderDefault(t))

	assert.Contains(t, out, "Options() : self(nullptr) { Exception::CheckResult(natsOptions_Create(&self)); }")
}

func TestRender_Methods(t *testing.T) {
	out := squash(renderDefault(t))

	assert.Contains(t, out, "natsConnStatus Status() const { return natsConnection_Status(self); }")
	assert.Contains(t, out, "const char * GetSubject() const { return natsMsg_GetSubject(self); }")
	assert.Contains(t, out,
		"template<typename T1, MsgHandler<T1> callback1> Subscription Subscribe(const char * subject, T1 * cbClosure) {"+
			" Subscription ret{static_cast<natsSubscription *>(nullptr)};"+
			" Exception::CheckResult(natsConnection_Subscribe(&ret.self, self, subject, &MsgHandlerCallback<T1, callback1>, cbClosure));"+
			" return ret; }")
	assert.Contains(t, out,
		"template<typename T1, ErrHandler<T1> callback1> void SetErrorHandler(T1 * closure) {"+
			" Exception::CheckResult(natsOptions_SetErrorHandler(self, &ErrHandlerCallback<T1, callback1>, closure)); }")
}

func TestRender_CallbackAdapters(t *testing.T) {
	raw := renderDefault(t)
	out := squash(raw)

	assert.Contains(t, out, "template<typename T> using MsgHandler = void (T::*)(Connection &, Subscription &, Msg &&);")
	assert.Contains(t, out, "template<typename T> using ErrHandler = void (T::*)(Connection &, Subscription &, natsStatus err);")
	assert.Contains(t, out,
		"template<typename T, MsgHandler<T> callback> void MsgHandlerCallback(natsConnection * nc, natsSubscription * sub, natsMsg * msg, void * closure) {"+
			" Connection::WithoutDestruction nc_(nc);"+
			" Subscription::WithoutDestruction sub_(sub);"+
			" return (static_cast<T *>(closure)->*callback)(nc_, sub_, Msg(msg)); }")

	// adapters are declared ahead of the classes that reference them
	assert.Less(t, strings.Index(raw, "MsgHandlerCallback(natsConnection"), strings.Index(raw, "class Connection {"))
}

func TestRender_CrossNamespaceCallback(t *testing.T) {
	out := squash(renderDefault(t))

	assert.Contains(t, out,
		"template<typename T1, nats::MsgHandler<T1> callback1> void Subscribe(T1 * closure) {"+
			" Exception::CheckResult(stanConnection_Subscribe(self, &nats::MsgHandlerCallback<T1, callback1>, closure)); }")
	assert.Contains(t, out, "~Connection() { if (self != nullptr) { stanConnection_Destroy(self); } }")
}

func TestRender_FreeFunctions(t *testing.T) {
	out := squash(renderDefault(t))

	assert.Contains(t, out, "inline void Open(int64_t lockSpinCount) { Exception::CheckResult(nats_Open(lockSpinCount)); }")
	assert.Contains(t, out, "inline const char * GetVersion() { return nats_GetVersion(); }")
	assert.Contains(t, out, "inline void Close() { nats_Close(); }")
}

func TestRender_Deterministic(t *testing.T) {
	assert.Equal(t, renderDefault(t), renderDefault(t))
}

func TestNew_UserTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.tmpl")
	text := `{{range .Namespaces}}{{.Name}}:{{range .Classes}} {{lower .ShortName}}{{end}}
{{end}}`
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))

	r, err := New(path)
	require.NoError(t, err)
	assert.Equal(t, "names.tmpl", r.Name())

	m, err := binding.Build(clientNodes(), binding.DefaultConvention())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, m))
	assert.Equal(t, "nats: connection subscription msg options\nstan: connection\n", buf.String())
}

func TestNew_MissingTemplate(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing.tmpl"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("broken", "{{range .Namespaces}")
	assert.Error(t, err)
}

func TestRenderFile(t *testing.T) {
	m, err := binding.Build(clientNodes(), binding.DefaultConvention())
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "include", "nats.hpp")

	r, err := New("")
	require.NoError(t, err)
	require.NoError(t, r.RenderFile(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "namespace nats {")

	bad, err := Parse("bad", "{{.Missing}}")
	require.NoError(t, err)
	failed := filepath.Join(dir, "failed.hpp")
	require.Error(t, bad.RenderFile(failed, m))
	_, err = os.Stat(failed)
	assert.True(t, os.IsNotExist(err))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "    a\n\n    b", indent(4, "a\n\nb"))
	assert.Equal(t, "", indent(2, ""))
}

func TestComment(t *testing.T) {
	assert.Equal(t, "", comment(decl.Comment{}))
	assert.Equal(t, "/** Flushes. */", comment(decl.Comment{Brief: " Flushes. "}))
	assert.Equal(t, "/**\n * First line.\n *\n * Second.\n */", comment(decl.Comment{Brief: "First line.\n\nSecond."}))
}

func TestFuncs(t *testing.T) {
	r, err := Parse("funcs", `{{join .Args ", "}}|{{hasPrefix "natsMsg" "nats"}}|{{trimPrefix "natsMsg" "nats"}}`)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.tmpl.Execute(&buf, map[string][]string{"Args": {"a", "b"}}))
	assert.Equal(t, "a, b|true|Msg", buf.String())
}
