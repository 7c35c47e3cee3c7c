package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/psidex/zxedit/internal/snapshot"
)

func sample(t *testing.T) *snapshot.Snapshot {
	t.Helper()
	s, err := snapshot.Parse([]byte(`{
		"nodes": [
			{"name": 0, "x": 0, "y": 0, "t": 0, "phase": ""},
			{"name": 1, "x": 1, "y": 0, "t": 1, "phase": "π/2"},
			{"name": 2, "x": 2, "y": 0, "t": 2, "phase": "", "ground": true}
		],
		"links": [
			{"source": 0, "target": 1, "t": 1},
			{"source": 1, "target": 2, "t": 2}
		]
	}`))
	require.NoError(t, err)
	return s
}

// collect walks the parsed document and returns every element with the given tag.
func collect(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func scriptText(nodes []*html.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

func TestVisRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewVis().Render(&buf, sample(t)))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	divs := collect(doc, "div")
	require.Len(t, divs, 1)
	assert.Equal(t, "network", divs[0].Attr[0].Val)

	script := scriptText(collect(doc, "script"))
	assert.Contains(t, script, `"label":"π/2"`)
	assert.Contains(t, script, `"from":1,"to":2,"dashes":true`)
	assert.Contains(t, script, `"borderWidth":4`)
	assert.NotContains(t, script, "%!")
}

func TestEChartsRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewECharts("zx test").Render(&buf, sample(t)))

	doc, err := html.Parse(&buf)
	require.NoError(t, err)

	titles := collect(doc, "title")
	require.NotEmpty(t, titles)
	assert.Equal(t, "zx test", titles[0].FirstChild.Data)

	script := scriptText(collect(doc, "script"))
	assert.Contains(t, script, "#ff8888")
}

func TestJSONRender(t *testing.T) {
	s := sample(t)
	var buf bytes.Buffer
	require.NoError(t, JSON{}.Render(&buf, s))

	back, err := snapshot.Parse(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, s, back)
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		r, err := ByName(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, r.Ext())
	}

	_, err := ByName("svg")
	assert.ErrorIs(t, err, ErrUnknownRenderer)
}

func TestRenderToFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out")
	path, err := RenderToFile(JSON{}, sample(t), base)
	require.NoError(t, err)
	assert.Equal(t, base+".json", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"nodes"`)
}
