package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"resumake/internal/errors"
)

// job posting pages are occasionally slow; generous but bounded
const jobFetchTimeout = 30 * time.Second

// LoadJobDescription returns the job description text for the tailor,
// cover-letter and ats commands. The ref is either a filesystem path or an
// http(s) URL; URL content is fetched and converted from HTML to
// markdown-ish text so the prompt sees readable prose instead of markup.
func LoadJobDescription(ctx context.Context, ref string, logger *errors.Logger) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return fetchJobDescription(ctx, ref, logger)
	}

	fp := NewFileProcessor(logger)
	contents, err := fp.ValidateAndReadFiles(ref)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(contents[0])
	if text == "" {
		return "", errors.NewValidationError("EMPTY_JOB_DESCRIPTION",
			fmt.Sprintf("Job description file is empty: %s", ref), nil)
	}
	return text, nil
}

func fetchJobDescription(ctx context.Context, url string, logger *errors.Logger) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, jobFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.NewNetworkError("JOB_FETCH_FAILED",
			fmt.Sprintf("Cannot build request for %s", url), err)
	}
	req.Header.Set("User-Agent", "resumake")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.NewNetworkError("JOB_FETCH_FAILED",
			fmt.Sprintf("Cannot fetch job description from %s", url), err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && logger != nil {
			logger.Warn("Failed to close response body", "url", url, "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", errors.NewNetworkError("JOB_FETCH_FAILED",
			fmt.Sprintf("Fetching %s returned status %d", url, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewNetworkError("JOB_FETCH_FAILED",
			fmt.Sprintf("Cannot read response from %s", url), err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(body))
	if err != nil {
		// Unconvertible pages still carry text worth prompting with.
		if logger != nil {
			logger.Warn("HTML conversion failed, using raw content", "url", url, "error", err)
		}
		markdown = string(body)
	}

	text := strings.TrimSpace(markdown)
	if text == "" {
		return "", errors.NewValidationError("EMPTY_JOB_DESCRIPTION",
			fmt.Sprintf("Job description at %s is empty", url), nil)
	}
	return text, nil
}
