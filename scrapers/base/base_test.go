package base

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raushankrgupta/catalog-crawler/models"
	"github.com/raushankrgupta/catalog-crawler/utils"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<h1>
  Wooden  Hat
</h1>
<div class="thumbs"><a href="/img/1.jpg">1</a><a>no href</a><a href="https://cdn.example/2.jpg">2</a></div>
<span class="empty">   </span>
</body></html>`

func TestPageHelpers(t *testing.T) {
	page, err := NewPage("https://shop.example/products/hat", fixture)
	require.NoError(t, err)

	title, err := RequiredText(page, "title", "h1", utils.NormalizeText)
	require.NoError(t, err)
	require.Equal(t, "Wooden Hat", title)

	require.Equal(t, []string{"https://shop.example/img/1.jpg", "https://cdn.example/2.jpg"}, page.Links(".thumbs a"))

	require.Nil(t, OptionalText(page, "description", ".description", utils.NormalizeText))
	require.Nil(t, OptionalText(page, "description", ".empty", utils.NormalizeText))
	require.Equal(t, "https://shop.example/img/1.jpg", *OptionalAttr(page, "image", ".thumbs a", "href"))

	_, err = RequiredText(page, "price", "#price", nil)
	var extractErr *models.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	require.Equal(t, "price", extractErr.Field)
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(fixture))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(5*time.Second, 0)
	defer f.Close()
	require.Equal(t, ModeStatic, f.Mode())

	page, err := f.Fetch(context.Background(), FetchRequest{URL: srv.URL + "/products/hat"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Find("h1").Length())

	_, err = f.Fetch(context.Background(), FetchRequest{URL: srv.URL + "/missing"})
	var fetchErr *models.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestParseFetchMode(t *testing.T) {
	mode, err := ParseFetchMode(" Rendered ")
	require.NoError(t, err)
	require.Equal(t, ModeRendered, mode)

	_, err = ParseFetchMode("headless")
	require.Error(t, err)
}

func TestPortManager(t *testing.T) {
	pm := NewPortManager(4444, 2)
	a, err := pm.GetPort()
	require.NoError(t, err)
	b, err := pm.GetPort()
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = pm.GetPort()
	require.Error(t, err)

	pm.ReleasePort(a)
	c, err := pm.GetPort()
	require.NoError(t, err)
	require.Equal(t, a, c)
}

func TestPageTimeout(t *testing.T) {
	require.Equal(t, DefaultPageTimeout, BrowserOptions{}.pageTimeout())
	require.Equal(t, 30*time.Second, BrowserOptions{PageTimeout: 30 * time.Second}.pageTimeout())

	expired, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-expired.Done()

	err := pageError(expired, "https://shop.test/slow", time.Millisecond, errors.New("navigation error: cdp closed"))
	require.True(t, models.IsTimeout(err))
	require.Equal(t, "https://shop.test/slow", err.URL)
	require.Contains(t, err.Error(), "page not loaded within 1ms")

	err = pageError(context.Background(), "https://shop.test/p", time.Minute, errors.New("net::ERR_NAME_NOT_RESOLVED"))
	require.False(t, models.IsTimeout(err))
	require.Contains(t, err.Error(), "ERR_NAME_NOT_RESOLVED")
}

func TestExtraHeaders(t *testing.T) {
	require.Equal(t, "en-US,en;q=0.5", extraHeaders["Accept-Language"])
	require.Contains(t, extraHeaders["Accept"], "text/html")
}
