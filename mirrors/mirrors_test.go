package mirrors

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidates(t *testing.T) {
	t.Run("PreferredFirst", func(t *testing.T) {
		c := Candidates()
		require.GreaterOrEqual(t, len(c), 2)
		assert.Equal(t, "bato.si", c[0])
		assert.Equal(t, "bato.ing", c[1])
	})

	t.Run("NoDuplicates", func(t *testing.T) {
		c := Candidates()
		seen := map[string]bool{}
		for _, d := range c {
			assert.False(t, seen[d], "duplicate candidate %s", d)
			seen[d] = true
		}
		assert.Len(t, c, len(Domains()))
	})

	t.Run("DomainsIsACopy", func(t *testing.T) {
		d := Domains()
		d[0] = "example.com"
		assert.Equal(t, "bato.si", Domains()[0])
	})
}

func TestKnownMirror(t *testing.T) {
	tests := []struct {
		name   string
		url    string
		want   string
		wantOK bool
	}{
		{"ExactHost", "https://bato.to/title/123-foo/456-ch_1", "bato.to", true},
		{"ShortDomain", "https://ato.to/chapter/1", "ato.to", true},
		{"Subdomain", "https://www.mangatoto.com/chapter/1", "mangatoto.com", true},
		{"UppercaseHost", "https://BATO.TO/chapter/1", "bato.to", true},
		{"NoScheme", "bato.ing/chapter/9", "bato.ing", true},
		{"Unknown", "https://example.com/chapter/1", "", false},
		{"Empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KnownMirror(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRewriteChapterURL(t *testing.T) {
	t.Run("EveryDomainRewritesToTarget", func(t *testing.T) {
		for _, d := range Domains() {
			in := "https://" + d + "/title/81514-x/2345-ch_12"
			got := RewriteChapterURL(in, "bato.si")
			assert.Equal(t, "https://bato.si/title/81514-x/2345-ch_12", got, "domain %s", d)
		}
	})

	t.Run("OnlyFirstOccurrenceReplaced", func(t *testing.T) {
		got := RewriteChapterURL("https://bato.to/redirect?next=bato.to", "bato.ing")
		assert.Equal(t, "https://bato.ing/redirect?next=bato.to", got)
	})

	t.Run("LongerDomainNotShadowed", func(t *testing.T) {
		got := RewriteChapterURL("https://bato.to/chapter/1", "mto.to")
		assert.Equal(t, "https://mto.to/chapter/1", got)
	})

	t.Run("UnknownUnchanged", func(t *testing.T) {
		in := "https://example.com/chapter/1"
		assert.Equal(t, in, RewriteChapterURL(in, "bato.si"))
	})

	t.Run("PathPreserved", func(t *testing.T) {
		in := "https://xbato.com.bato.to/a/b?c=d#e"
		got := RewriteChapterURL(in, "bato.si")
		assert.True(t, strings.HasSuffix(got, "/a/b?c=d#e"))
		assert.Equal(t, 1, strings.Count(got, "bato.si"))
	})
}

func TestRewriteImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"KHostJPEG", "https://k001.mbimg.org/media/1.jpg", "https://n001.mbimg.org/media/1.jpg"},
		{"KHostWebpQuery", "https://kx.host/a/b.webp?t=1", "https://nx.host/a/b.webp?t=1"},
		{"UppercaseExtension", "https://k9.host/a.PNG", "https://n9.host/a.PNG"},
		{"NHostUnchanged", "https://n001.mbimg.org/media/1.jpg", "https://n001.mbimg.org/media/1.jpg"},
		{"GifUnchanged", "https://k001.mbimg.org/media/1.gif", "https://k001.mbimg.org/media/1.gif"},
		{"HTTPUnchanged", "http://k001.mbimg.org/media/1.jpg", "http://k001.mbimg.org/media/1.jpg"},
		{"NotImage", "https://k001.mbimg.org/media/page.html", "https://k001.mbimg.org/media/page.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteImageURL(tt.in))
		})
	}
}

func TestRewriteImageURLsPreservesOrder(t *testing.T) {
	in := []string{"https://k1.a/1.jpg", "https://x.a/2.jpg", "https://k3.a/3.png"}
	got := RewriteImageURLs(in)
	assert.Equal(t, []string{"https://n1.a/1.jpg", "https://x.a/2.jpg", "https://n3.a/3.png"}, got)
	assert.Equal(t, "https://k1.a/1.jpg", in[0])
}
