// Package importer fetches shared workout templates from GitHub and loads
// them into the backend catalog.
package importer

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/ichigooo/workout-planner/internal/errors"
)

// DefaultTemplatePath is where a template repo keeps its workouts unless the
// source string names another file.
const DefaultTemplatePath = "workouts.yaml"

// GitHubClient fetches template files via the GitHub contents API.
type GitHubClient struct {
	rest *api.RESTClient
}

// NewGitHubClient creates an unauthenticated client. Template repos are
// public; unauthenticated access keeps `wplan import` from requiring a
// GitHub login, at the cost of lower rate limits.
func NewGitHubClient() (*GitHubClient, error) {
	client, err := api.NewRESTClient(api.ClientOptions{})
	if err != nil {
		return nil, err
	}
	return &GitHubClient{rest: client}, nil
}

// NewGitHubClientWithToken creates a client with an explicit token, for
// private template repos.
func NewGitHubClientWithToken(token string) (*GitHubClient, error) {
	client, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: token,
	})
	if err != nil {
		return nil, err
	}
	return &GitHubClient{rest: client}, nil
}

// fileContentsResponse represents GitHub's contents API response.
type fileContentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

// FetchTemplate fetches a template file from a repo.
func (c *GitHubClient) FetchTemplate(ctx context.Context, owner, repo, path string) (string, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/contents/%s", owner, repo, url.PathEscape(path))

	var response fileContentsResponse
	if err := c.rest.Get(endpoint, &response); err != nil {
		return "", errors.ImportFetchFailed(owner+"/"+repo, err)
	}

	content, err := base64.StdEncoding.DecodeString(response.Content)
	if err != nil {
		return "", fmt.Errorf("failed to decode content: %w", err)
	}
	return string(content), nil
}

// ParseSource splits a template source string into owner, repo, and file
// path. Accepted forms: "owner/repo" (implies workouts.yaml) and
// "owner/repo/path/to/file.yaml".
func ParseSource(source string) (owner, repo, path string, err error) {
	parts := strings.Split(strings.Trim(source, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", errors.InvalidRepo(source)
	}

	owner, repo = parts[0], parts[1]
	path = DefaultTemplatePath
	if len(parts) > 2 {
		path = strings.Join(parts[2:], "/")
	}
	return owner, repo, path, nil
}
