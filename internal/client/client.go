// Package client talks to the traveler registration server over HTTP.
// It supplies the controller with its fetcher, navigator and saver.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"path"
	"strings"

	"github.com/pkordes/traveler-registration/internal/domain"
)

// Endpoint paths served by the registration server.
const (
	PathTravelers    = "/get_travelers"
	PathBackup       = "/backup_database"
	PathLogin        = "/login"
	PathAddTraveler  = "/add_traveler"
	PathBookingSites = "/booking_sites"
)

// Saver persists a downloaded or generated file under name.
type Saver interface {
	Save(name string, data []byte) error
}

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Body)
}

// Client is a session-holding HTTP client for one server.
type Client struct {
	base  *url.URL
	http  *http.Client
	saver Saver
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Its cookie jar, if
// any, is kept; otherwise a fresh jar is attached.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithSaver sets where Navigate stores downloaded files.
func WithSaver(s Saver) Option {
	return func(c *Client) { c.saver = s }
}

// New returns a Client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client.New: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client.New: base url %q must be absolute", baseURL)
	}

	c := &Client{base: u, http: &http.Client{}}
	for _, o := range opts {
		o(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("client.New: cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

// Login signs in and keeps the session cookie for later requests.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	resp, err := c.postForm(ctx, PathLogin, form)
	if err != nil {
		return fmt.Errorf("client.Login: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("client.Login: %w", err)
	}
	return nil
}

// Travelers fetches the full traveler collection.
func (c *Client) Travelers(ctx context.Context) ([]domain.TravelerRow, error) {
	var rows []domain.TravelerRow
	if err := c.getJSON(ctx, PathTravelers, &rows); err != nil {
		return nil, fmt.Errorf("client.Travelers: %w", err)
	}
	if rows == nil {
		rows = []domain.TravelerRow{}
	}
	return rows, nil
}

// BookingSites fetches the selectable booking sites.
func (c *Client) BookingSites(ctx context.Context) ([]domain.BookingSite, error) {
	var sites []domain.BookingSite
	if err := c.getJSON(ctx, PathBookingSites, &sites); err != nil {
		return nil, fmt.Errorf("client.BookingSites: %w", err)
	}
	return sites, nil
}

// AddTraveler posts a registration form and returns the stored record.
func (c *Client) AddTraveler(ctx context.Context, form url.Values) (domain.TravelerRow, error) {
	resp, err := c.postForm(ctx, PathAddTraveler, form)
	if err != nil {
		return domain.TravelerRow{}, fmt.Errorf("client.AddTraveler: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return domain.TravelerRow{}, fmt.Errorf("client.AddTraveler: %w", err)
	}
	var row domain.TravelerRow
	if err := json.NewDecoder(resp.Body).Decode(&row); err != nil {
		return domain.TravelerRow{}, fmt.Errorf("client.AddTraveler: decode: %w", err)
	}
	return row, nil
}

// Navigate requests p the way a full-page navigation would and hands any
// file the server sends to the saver. It returns the saved file name, or ""
// when the response was not an attachment.
func (c *Client) Navigate(ctx context.Context, p string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(p), nil)
	if err != nil {
		return "", fmt.Errorf("client.Navigate: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.Navigate: %w", err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return "", fmt.Errorf("client.Navigate: %w", err)
	}

	name := attachmentName(resp.Header.Get("Content-Disposition"))
	if name == "" {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", nil
	}
	if c.saver == nil {
		return "", errors.New("client.Navigate: no saver configured for download")
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("client.Navigate: read body: %w", err)
	}
	if err := c.saver.Save(name, data); err != nil {
		return "", fmt.Errorf("client.Navigate: %w", err)
	}
	return name, nil
}

func (c *Client) resolve(p string) string {
	u := *c.base
	u.Path = path.Join(u.Path, p)
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, p string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.resolve(p), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", p, err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, p string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.resolve(p), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

// checkStatus turns a non-2xx response into a *StatusError carrying a
// bounded excerpt of the body.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

// attachmentName returns the base file name from a Content-Disposition
// attachment header, or "" if there is none.
func attachmentName(header string) string {
	if header == "" {
		return ""
	}
	disp, params, err := mime.ParseMediaType(header)
	if err != nil || disp != "attachment" {
		return ""
	}
	name := path.Base(params["filename"])
	if name == "." || name == "/" {
		return ""
	}
	return name
}
