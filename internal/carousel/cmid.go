package carousel

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// UnknownArticle stands in for the article id when the URL has none.
const UnknownArticle = "UNKNOWN"

var (
	trailingDigits = regexp.MustCompile(`(\d+)$`)
	allDigits      = regexp.MustCompile(`^\d+$`)
)

// ArticleID extracts the CMS id from an article URL: the digits that end the
// last path segment (ignoring a file extension), or else a numeric "id" query
// value.
func ArticleID(rawURL string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || rawURL == "" {
		return "", false
	}

	segment := path.Base(strings.TrimRight(u.Path, "/"))
	segment = strings.TrimSuffix(segment, path.Ext(segment))
	if m := trailingDigits.FindString(segment); m != "" {
		return m, true
	}

	if id := u.Query().Get("id"); allDigits.MatchString(id) {
		return id, true
	}
	return "", false
}

// CarouselID is the tracking id of the carousel at zero-based index.
func CarouselID(articleID string, index int) string {
	if articleID == "" {
		articleID = UnknownArticle
	}
	return articleID + "__" + strconv.Itoa(index+1)
}
