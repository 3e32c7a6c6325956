package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"atkctl/pkg/logging"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// State is the persisted form of a logged-in browser.
type State struct {
	Origin       string            `json:"origin"`
	Cookies      []*network.Cookie `json:"cookies"`
	LocalStorage map[string]string `json:"localStorage,omitempty"`
}

const (
	readLocalStorage = `JSON.stringify(Object.assign({}, window.localStorage))`
	readOrigin       = `window.location.origin`
)

// ExportState captures every cookie in the browser plus the localStorage of
// the current origin.
func (c *Chrome) ExportState(ctx context.Context) ([]byte, error) {
	var (
		st    State
		local string
	)
	err := c.run(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			cookies, err := storage.GetCookies().Do(ctx)
			st.Cookies = cookies
			return err
		}),
		chromedp.Evaluate(readOrigin, &st.Origin),
		chromedp.Evaluate(readLocalStorage, &local),
	)
	if err != nil {
		return nil, fmt.Errorf("exporting browser state: %w", err)
	}
	if local != "" && local != "{}" {
		if err := json.Unmarshal([]byte(local), &st.LocalStorage); err != nil {
			return nil, fmt.Errorf("decoding localStorage: %w", err)
		}
	}
	return json.Marshal(st)
}

// ImportState restores cookies and, when present, localStorage. Restoring
// localStorage navigates to the saved origin.
func (c *Chrome) ImportState(ctx context.Context, blob []byte) error {
	var st State
	if err := json.Unmarshal(blob, &st); err != nil {
		return fmt.Errorf("decoding browser state: %w", err)
	}
	params := cookieParams(st.Cookies)
	actions := []chromedp.Action{
		chromedp.ActionFunc(func(ctx context.Context) error {
			if len(params) == 0 {
				return nil
			}
			return network.SetCookies(params).Do(ctx)
		}),
	}
	if len(st.LocalStorage) > 0 && st.Origin != "" && st.Origin != "null" {
		local, err := json.Marshal(st.LocalStorage)
		if err != nil {
			return err
		}
		actions = append(actions,
			chromedp.Navigate(st.Origin),
			chromedp.Evaluate(fmt.Sprintf(`(() => {
  const items = %s;
  for (const [k, v] of Object.entries(items)) { window.localStorage.setItem(k, v); }
  return true;
})()`, local), nil),
		)
	}
	logging.Debug("Browser", "Importing %d cookie(s) and %d localStorage item(s)", len(params), len(st.LocalStorage))
	return c.run(ctx, actions...)
}

// cookieParams converts captured cookies into the form accepted by
// Network.setCookies. Session cookies keep no expiry.
func cookieParams(cookies []*network.Cookie) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(cookies))
	for _, ck := range cookies {
		if ck == nil {
			continue
		}
		p := &network.CookieParam{
			Name:         ck.Name,
			Value:        ck.Value,
			Domain:       ck.Domain,
			Path:         ck.Path,
			Secure:       ck.Secure,
			HTTPOnly:     ck.HTTPOnly,
			SameSite:     ck.SameSite,
			Priority:     ck.Priority,
			SourceScheme: ck.SourceScheme,
			SourcePort:   ck.SourcePort,
		}
		if !ck.Session && ck.Expires > 0 {
			sec, frac := math.Modf(ck.Expires)
			t := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*1e9)))
			p.Expires = &t
		}
		params = append(params, p)
	}
	return params
}
