//go:build js && wasm

package mirror

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/esimov/foggy-mirror/brush"
	"github.com/esimov/foggy-mirror/logger"
)

// brushLoader fetches the configured brush image next to the page. The
// built-in ink is used when none is configured or the fetch fails.
func (c *Canvas) brushLoader() brush.Loader {
	ink := brush.InkLoader{Size: c.cfg.BrushSize}
	if c.cfg.BrushAsset == "" {
		return ink
	}
	remote := brush.LoaderFunc(func(ctx context.Context) (image.Image, error) {
		data, err := c.fetch(ctx, c.cfg.BrushAsset)
		if err != nil {
			return nil, err
		}
		img, err := brush.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.cfg.BrushAsset, err)
		}
		return img, nil
	})
	return brush.Fallback{remote, ink}
}

// fetch retrieves the asset at path, resolved against the page location.
func (c *Canvas) fetch(ctx context.Context, path string) ([]byte, error) {
	href := c.window.Get("location").Get("href")
	base, err := url.Parse(href.String())
	if err != nil {
		return nil, err
	}
	u := base.ResolveReference(&url.URL{Path: path})
	u.RawQuery = fmt.Sprint(time.Now().UnixNano())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed fetching %s: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed fetching %s: %s", path, res.Status)
	}
	return io.ReadAll(res.Body)
}

// snapshot downloads the current stage as a PNG image.
func (c *Canvas) snapshot() {
	img, err := c.session.Snapshot()
	if err != nil {
		logger.Logger().Warn("snapshot unavailable", "error", err)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logger.Logger().Error("snapshot encoding failed", "error", err)
		return
	}
	link := c.doc.Call("createElement", "a")
	link.Set("href", "data:image/png;base64,"+base64.StdEncoding.EncodeToString(buf.Bytes()))
	link.Set("download", fmt.Sprintf("mirror-%d.png", time.Now().Unix()))
	c.body.Call("appendChild", link)
	link.Call("click")
	c.body.Call("removeChild", link)
}
