package mirrors

import (
	"net/url"
	"regexp"
	"strings"
)

// domains is the fixed set of interchangeable hosts serving the same catalogue.
var domains = []string{
	"bato.si",
	"bato.ing",
	"ato.to",
	"dto.to",
	"fto.to",
	"hto.to",
	"jto.to",
	"lto.to",
	"mto.to",
	"nto.to",
	"vto.to",
	"wto.to",
	"bato.ac",
	"bato.bz",
	"bato.to",
	"comiko.net",
	"mangatoto.com",
}

// preferred mirrors are probed before the rest of the family.
var preferred = []string{"bato.si", "bato.ing"}

// imageHostPattern matches CDN image URLs whose host starts with "k".
// Those hosts are unreliable; the same object is served from the matching "n" host.
var imageHostPattern = regexp.MustCompile(`(?i)^https://k.*\.(png|jpg|jpeg|webp)(\?.*)?$`)

// Domains returns a copy of the recognised mirror domains.
func Domains() []string {
	out := make([]string, len(domains))
	copy(out, domains)
	return out
}

// Candidates returns the probe order used by the resolver: the preferred mirrors
// followed by the full family, duplicates removed while keeping first occurrence.
func Candidates() []string {
	seen := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, d := range append(append([]string{}, preferred...), domains...) {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

// KnownMirror returns the mirror domain the URL belongs to.
// The host is checked first (exact or subdomain match); otherwise the longest
// domain occurring anywhere in the URL wins, so "ato.to" never shadows "bato.to".
func KnownMirror(rawURL string) (string, bool) {
	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil && u.Host != "" {
		host := strings.ToLower(u.Hostname())
		for _, d := range domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return d, true
			}
		}
	}

	lower := strings.ToLower(rawURL)
	best := ""
	for _, d := range domains {
		if strings.Contains(lower, d) && len(d) > len(best) {
			best = d
		}
	}
	return best, best != ""
}

// RewriteChapterURL replaces the first occurrence of the URL's mirror domain with target.
// Everything else in the URL is preserved. URLs without a recognised domain come back unchanged.
func RewriteChapterURL(rawURL, target string) string {
	d, ok := KnownMirror(rawURL)
	if !ok {
		return rawURL
	}

	idx := strings.Index(rawURL, d)
	if lower := strings.ToLower(rawURL); len(lower) == len(rawURL) {
		idx = strings.Index(lower, d)
	}
	if idx < 0 {
		return rawURL
	}
	return rawURL[:idx] + target + rawURL[idx+len(d):]
}

// RewriteImageURL maps an image on a "k" CDN host to the "n" host.
// Only the first "https://k" is replaced; any other URL is returned unchanged.
func RewriteImageURL(imageURL string) string {
	if !imageHostPattern.MatchString(imageURL) {
		return imageURL
	}
	return "https://n" + imageURL[len("https://k"):]
}

// RewriteImageURLs applies RewriteImageURL to every entry, preserving order.
func RewriteImageURLs(images []string) []string {
	out := make([]string, len(images))
	for i, img := range images {
		out[i] = RewriteImageURL(img)
	}
	return out
}
