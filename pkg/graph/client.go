package graph

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-hub-be/internal/entity"
	"ai-hub-be/pkg/msauth"
)

const endpointBase = "https://graph.microsoft.com/v1.0"

// DefaultScope is the application scope for drive access.
var DefaultScope = []string{"https://graph.microsoft.com/.default"}

// DriveItem is one entry of a drive folder listing.
type DriveItem struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	IsFolder bool   `json:"isFolder"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
}

// Client is the document source collaborator: it lists and fetches files
// from SharePoint drives through Microsoft Graph.
type Client struct {
	tokens  msauth.TokenProvider
	client  *http.Client
	baseURL string
}

func NewClient(tokens msauth.TokenProvider) *Client {
	return &Client{
		tokens: tokens,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL: endpointBase,
	}
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	token, err := c.tokens.AcquireToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graph request failed: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("graph request returned status %d: %s", res.StatusCode, string(body))
	}
	return res, nil
}

type driveChildrenResponse struct {
	Value []struct {
		Id     string `json:"id"`
		Name   string `json:"name"`
		Size   int64  `json:"size"`
		Folder *struct{} `json:"folder"`
		File   *struct {
			MimeType string `json:"mimeType"`
		} `json:"file"`
	} `json:"value"`
}

// ListChildren lists the entries under an item of a site drive. Pass "root"
// as itemID for the drive root.
func (c *Client) ListChildren(ctx context.Context, siteID, itemID string) ([]DriveItem, error) {
	endpoint := fmt.Sprintf("/sites/%s/drive/items/%s/children?$select=id,name,file,folder,size", siteID, itemID)
	res, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var data driveChildrenResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode children listing: %w", err)
	}

	items := make([]DriveItem, 0, len(data.Value))
	for _, v := range data.Value {
		item := DriveItem{
			Id:       v.Id,
			Name:     v.Name,
			IsFolder: v.Folder != nil,
			Size:     v.Size,
		}
		if v.File != nil {
			item.MimeType = v.File.MimeType
		}
		items = append(items, item)
	}
	return items, nil
}

// FetchContent downloads the raw bytes of a drive item.
func (c *Client) FetchContent(ctx context.Context, siteID, itemID string) ([]byte, error) {
	endpoint := fmt.Sprintf("/sites/%s/drive/items/%s/content", siteID, itemID)
	res, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

// DownloadFile fetches an item and packages it as a knowledge file with the
// data: envelope used across the hub.
func (c *Client) DownloadFile(ctx context.Context, siteID, itemID, name, mimeType string, size int64) (*entity.KnowledgeFile, error) {
	raw, err := c.FetchContent(ctx, siteID, itemID)
	if err != nil {
		return nil, err
	}
	encoded := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(raw))
	return &entity.KnowledgeFile{
		Name:          name,
		MimeType:      mimeType,
		Size:          size,
		UploadedAt:    time.Now().UTC(),
		Base64Content: encoded,
	}, nil
}
