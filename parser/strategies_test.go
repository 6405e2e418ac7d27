package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImages(t *testing.T) {
	t.Run("StructuredArray", func(t *testing.T) {
		doc := &Document{Scripts: []string{
			`var x = 1;`,
			`const imgHttps = ["https://k1.a/1.webp","https://k1.a/2.webp"]; const other = [];`,
		}}
		urls, strategy := ExtractImages(doc, Strategies)
		assert.Equal(t, StrategyStructuredArray, strategy)
		assert.Equal(t, []string{"https://k1.a/1.webp", "https://k1.a/2.webp"}, urls)
	})

	t.Run("StructuredArrayWinsOverMarker", func(t *testing.T) {
		doc := &Document{Scripts: []string{
			`var batoPass = "x"; var imgHttpLis = ["https://m.a/9.jpg"];`,
			`var imgHttps = ["https://s.a/1.png"];`,
		}}
		urls, strategy := ExtractImages(doc, Strategies)
		assert.Equal(t, StrategyStructuredArray, strategy)
		assert.Equal(t, []string{"https://s.a/1.png"}, urls)
	})

	t.Run("MalformedArrayFallsThrough", func(t *testing.T) {
		doc := &Document{Scripts: []string{
			`var imgHttps = [1, 2, 3];`,
			`var imgHttpLis = ["https://m.a/1.jpg","https://m.a/2.jpg?x=1"];`,
		}}
		urls, strategy := ExtractImages(doc, Strategies)
		assert.Equal(t, StrategyMarkerToken, strategy)
		assert.Equal(t, []string{"https://m.a/1.jpg", "https://m.a/2.jpg?x=1"}, urls)
	})

	t.Run("MarkerKeepsDuplicatesAndOrder", func(t *testing.T) {
		doc := &Document{Scripts: []string{
			`batoPass = "a"; list = ["https://m.a/2.JPG","https://m.a/1.jpg","https://m.a/2.JPG"]`,
		}}
		urls, _ := ExtractImages(doc, Strategies)
		assert.Equal(t, []string{"https://m.a/2.JPG", "https://m.a/1.jpg", "https://m.a/2.JPG"}, urls)
	})

	t.Run("BroadScanDeduplicates", func(t *testing.T) {
		doc := &Document{Scripts: []string{
			`load('https://c.a/1.jpg'); load('https://c.a/2.png?v=3'); load('https://c.a/1.jpg'); load('https://c.a/3.gif')`,
		}}
		urls, strategy := ExtractImages(doc, Strategies)
		assert.Equal(t, StrategyBroadScan, strategy)
		assert.Equal(t, []string{"https://c.a/1.jpg", "https://c.a/2.png?v=3", "https://c.a/3.gif"}, urls)
	})

	t.Run("BroadScanNeedsThreeInOneScript", func(t *testing.T) {
		doc := &Document{Scripts: []string{
			`a('https://c.a/1.jpg'); a('https://c.a/2.jpg')`,
			`b('https://c.a/3.jpg')`,
		}}
		urls, strategy := ExtractImages(doc, Strategies)
		assert.Empty(t, urls)
		assert.Empty(t, strategy)
	})

	t.Run("NoScripts", func(t *testing.T) {
		urls, strategy := ExtractImages(&Document{}, Strategies)
		assert.Nil(t, urls)
		assert.Empty(t, strategy)
	})

	t.Run("NilDocument", func(t *testing.T) {
		urls, _ := ExtractImages(nil, Strategies)
		assert.Nil(t, urls)
	})
}

func TestParseDocumentExtractsScripts(t *testing.T) {
	html := `<html><head><title>Ignored</title>
<script>var imgHttps = ["https://k0.a/1.jpg"];</script></head>
<body><h3 class="nav-title">  Vol.1
  Ch.5 </h3><script src="app.js"></script></body></html>`

	doc, err := ParseDocument([]byte(html))
	require.NoError(t, err)
	require.Len(t, doc.Scripts, 1)

	urls, strategy := ExtractImages(doc, Strategies)
	assert.Equal(t, StrategyStructuredArray, strategy)
	assert.Equal(t, []string{"https://k0.a/1.jpg"}, urls)
	assert.Equal(t, "Vol.1 Ch.5", doc.Title())
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"NavTitle", `<h1>Series</h1><h3 class="nav-title">Ch 1</h3>`, "Ch 1"},
		{"HeadingFallback", `<h1>Series Ch 2</h1>`, "Series Ch 2"},
		{"EmptyNavTitleFallsThrough", `<h3 class="nav-title">  </h3><h1>Heading</h1>`, "Heading"},
		{"TitleElement", `<html><head><title>Page Title</title></head></html>`, "Page Title"},
		{"Default", `<div>nothing</div>`, DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.html))
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Title())
		})
	}
}
