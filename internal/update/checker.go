package update

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rauenzi/bbdinstall/internal/errdefs"
	"github.com/rauenzi/bbdinstall/internal/log"
)

const tagNameKey = `"tag_name":`

// maxBody caps how much of the release response is read.
const maxBody = 1 << 20

type CompareMode int

const (
	// CompareOrdinal compares tags byte by byte, so "v10.0" sorts before "v9.0".
	CompareOrdinal CompareMode = iota
	CompareSemver
)

type Result struct {
	Available bool
	Local     string
	Remote    string
}

// AvailableMsg is delivered to the UI loop when a newer release exists.
type AvailableMsg struct {
	Result Result
}

type Checker struct {
	Endpoint  string
	UserAgent string
	LocalTag  string
	Compare   CompareMode
	client    *http.Client
}

func NewChecker(endpoint, userAgent, localTag string, timeout time.Duration) *Checker {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS10,
		MaxVersion: tls.VersionTLS13,
	}

	return &Checker{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		LocalTag:  localTag,
		Compare:   CompareOrdinal,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// Check fetches the latest release tag and compares it with LocalTag.
func (c *Checker) Check(ctx context.Context) (Result, error) {
	res := Result{Local: c.LocalTag}

	body, err := c.fetch(ctx)
	if err != nil {
		return res, err
	}

	remote, err := ExtractTag(body)
	if err != nil {
		return res, err
	}
	res.Remote = remote

	newer, err := IsNewer(remote, c.LocalTag, c.Compare)
	if err != nil {
		return res, err
	}
	res.Available = newer
	return res, nil
}

// Cmd runs Check off the UI loop. Failures are logged and treated as "no
// update"; the command yields nil in that case.
func (c *Checker) Cmd() tea.Cmd {
	return func() tea.Msg {
		res, err := c.Check(context.Background())
		if err != nil {
			log.Debugf("Update check failed: %v", err)
			return nil
		}
		if !res.Available {
			log.Debugf("Installer is up to date (%s)", res.Local)
			return nil
		}
		log.Infof("Update available: %s -> %s", res.Local, res.Remote)
		return AvailableMsg{Result: res}
	}
}

func (c *Checker) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint, nil)
	if err != nil {
		return "", errdefs.Wrap(errdefs.ErrTypeUpdateCheck, "failed to build request", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errdefs.Wrap(errdefs.ErrTypeUpdateCheck, "release request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errdefs.NewCustomError(errdefs.ErrTypeUpdateCheck, fmt.Sprintf("release request returned %s", resp.Status))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", errdefs.Wrap(errdefs.ErrTypeUpdateCheck, "failed to read release response", err)
	}
	return string(data), nil
}

// ExtractTag scans for the literal `"tag_name":` and returns the text between
// the character following it and the next quote. It is not a JSON parser:
// whitespace after the colon breaks it.
func ExtractTag(body string) (string, error) {
	idx := strings.Index(body, tagNameKey)
	if idx < 0 {
		return "", errdefs.ErrTagNotFound
	}

	start := idx + len(tagNameKey) + 1
	if start > len(body) {
		return "", errdefs.ErrTagNotFound
	}

	end := strings.IndexByte(body[start:], '"')
	if end < 0 {
		return "", errdefs.NewCustomError(errdefs.ErrTypeUpdateCheck, "unterminated tag_name value")
	}
	return body[start : start+end], nil
}

// IsNewer reports whether remote sorts after local under mode.
func IsNewer(remote, local string, mode CompareMode) (bool, error) {
	switch mode {
	case CompareSemver:
		rv, err := semver.NewVersion(remote)
		if err != nil {
			return false, errdefs.Wrap(errdefs.ErrTypeUpdateCheck, fmt.Sprintf("invalid remote tag %q", remote), err)
		}
		lv, err := semver.NewVersion(local)
		if err != nil {
			return false, errdefs.Wrap(errdefs.ErrTypeUpdateCheck, fmt.Sprintf("invalid local tag %q", local), err)
		}
		return rv.GreaterThan(lv), nil
	default:
		return strings.Compare(remote, local) > 0, nil
	}
}
