package delivery

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipchain-web/logging"
)

func TestAccessLogUsesApplicationLogger(t *testing.T) {
	var buf bytes.Buffer
	_, app := newTestRouter(t)
	app.log = logging.New(&buf, "json", "info")
	h := NewRouter(app, mustTemplates(t))

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = get(h, "/no/such/page")
	require.Equal(t, http.StatusNotFound, rec.Code)

	out := buf.String()
	assert.Contains(t, out, `"msg":"request served"`)
	assert.Contains(t, out, `"path":"/"`)
	assert.Contains(t, out, `"status":200`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":404`)
}
