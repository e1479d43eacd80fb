// Package tracker fetches the raw work items for a sprint from an
// Azure DevOps-style work item tracker, over its WIQL-based REST API.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/me/gowe/pkg/model"
)

// Client queries an Azure DevOps organization/project for work items
// belonging to a sprint, using the tracker's WIQL query endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	org        string
	project    string
	token      string // personal access token, sent as basic auth
}

// NewClient creates a tracker client authenticated with a personal
// access token, pooling connections the way internal worker clients do.
func NewClient(organization, project, token string) *Client {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL: fmt.Sprintf("https://dev.azure.com/%s", organization),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		org:     organization,
		project: project,
		token:   token,
	}
}

// SetBaseURL overrides the organization URL, for pointing the client at
// a test double instead of dev.azure.com.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// wiqlResult is the response envelope for a WIQL query: a flat list of
// work item references, resolved to full fields by FetchSprintItems.
type wiqlResult struct {
	WorkItems []struct {
		ID int `json:"id"`
	} `json:"workItems"`
}

// workItemsResult is the response envelope for a work-items batch fetch.
type workItemsResult struct {
	Value []struct {
		ID     int            `json:"id"`
		Fields map[string]any `json:"fields"`
	} `json:"value"`
}

// FetchSprintItems queries User Stories under areaPath/iterationPath,
// then the Tasks parented to those User Stories, mirroring the two-pass
// query the upstream tracker client performs.
func (c *Client) FetchSprintItems(ctx context.Context, areaPath, iterationPath string) (*RawSprintItems, error) {
	storyIDs, err := c.queryWIQL(ctx, fmt.Sprintf(`
		SELECT [System.Id]
		FROM WorkItems
		WHERE [System.TeamProject] = '%s'
		AND [System.AreaPath] = '%s'
		AND [System.IterationPath] = '%s'
		AND [System.WorkItemType] = 'User Story'
		ORDER BY [Microsoft.VSTS.Common.StackRank] ASC
	`, c.project, areaPath, iterationPath))
	if err != nil {
		return nil, &model.TrackerError{Op: "query user stories", Message: err.Error()}
	}

	result := &RawSprintItems{}
	if len(storyIDs) == 0 {
		return result, nil
	}

	stories, err := c.fetchWorkItems(ctx, storyIDs)
	if err != nil {
		return nil, &model.TrackerError{Op: "hydrate user stories", Message: err.Error()}
	}
	result.Stories = stories

	taskIDs, err := c.queryWIQL(ctx, fmt.Sprintf(`
		SELECT [System.Id]
		FROM WorkItems
		WHERE [System.TeamProject] = '%s'
		AND [System.WorkItemType] = 'Task'
		AND [System.Parent] IN (%s)
		ORDER BY [Microsoft.VSTS.Common.StackRank] ASC
	`, c.project, joinIDs(storyIDs)))
	if err != nil {
		return nil, &model.TrackerError{Op: "query tasks", Message: err.Error()}
	}
	if len(taskIDs) == 0 {
		return result, nil
	}

	tasks, err := c.fetchWorkItems(ctx, taskIDs)
	if err != nil {
		return nil, &model.TrackerError{Op: "hydrate tasks", Message: err.Error()}
	}
	result.Tasks = tasks

	return result, nil
}

// queryWIQL runs a WIQL query and returns the ids of the matching
// work items, without their fields.
func (c *Client) queryWIQL(ctx context.Context, query string) ([]int, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/_apis/wit/wiql?api-version=7.1", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed wiqlResult
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode wiql result: %w", err)
	}

	ids := make([]int, len(parsed.WorkItems))
	for i, wi := range parsed.WorkItems {
		ids[i] = wi.ID
	}
	return ids, nil
}

// fetchWorkItems hydrates a batch of work item ids into RawWorkItem
// records, expanding all field groups the way the upstream client does
// for Tasks (expand=All picks up Description and relations too).
func (c *Client) fetchWorkItems(ctx context.Context, ids []int) ([]RawWorkItem, error) {
	path := fmt.Sprintf("/_apis/wit/workitems?ids=%s&$expand=All&api-version=7.1", joinIDs(ids))
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var parsed workItemsResult
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode work items result: %w", err)
	}

	items := make([]RawWorkItem, 0, len(parsed.Value))
	for _, v := range parsed.Value {
		items = append(items, toRawWorkItem(v.ID, v.Fields))
	}
	return items, nil
}

func toRawWorkItem(id int, fields map[string]any) RawWorkItem {
	item := RawWorkItem{
		ID:           strconv.Itoa(id),
		Title:        fieldString(fields, "System.Title"),
		WorkItemType: fieldString(fields, "System.WorkItemType"),
		State:        fieldString(fields, "System.State"),
		AssignedTo:   fieldAssignee(fields),
		AreaPath:     fieldString(fields, "System.AreaPath"),
	}
	if parent, ok := fields["System.Parent"]; ok {
		item.ParentID = fmt.Sprintf("%v", parent)
	}
	if v, ok := fields["Microsoft.VSTS.Scheduling.OriginalEstimate"]; ok {
		if f, ok := toFloat(v); ok {
			item.OriginalEstimate = &f
		}
	}
	return item
}

func fieldString(fields map[string]any, key string) string {
	v, ok := fields[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// fieldAssignee unwraps the tracker's identity-reference shape for
// System.AssignedTo, which may be a nested object or a plain string
// depending on API version.
func fieldAssignee(fields map[string]any) string {
	v, ok := fields["System.AssignedTo"]
	if !ok {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if email, ok := t["uniqueName"].(string); ok {
			return email
		}
		if name, ok := t["displayName"].(string); ok {
			return name
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(t, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// doRequest executes an authenticated HTTP request against the
// organization's base URL and returns the raw response on success.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+c.project+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.SetBasicAuth("", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody)
	}

	return resp, nil
}
