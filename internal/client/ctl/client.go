package ctl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophpress/internal/common"
)

const requestTimeout = 30 * time.Second

// Site mirrors the server's site representation.
type Site struct {
	Host        string    `json:"host"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post mirrors the server's post representation.
type Post struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	HTML      string    `json:"html"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}

// Upload is a presigned URL pair for one object.
type Upload struct {
	Key    string `json:"key"`
	PutURL string `json:"put_url"`
	GetURL string `json:"get_url"`
}

// Client is a thin JSON client for the server's API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode >= 400 {
		return apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// apiError surfaces the server's error message when it sent one.
func apiError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&e)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", resp.Status, common.ErrorNotFound)
	}
	if e.Error != "" {
		return fmt.Errorf("server: %s (%s)", e.Error, resp.Status)
	}
	return fmt.Errorf("server: %s", resp.Status)
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) CreateSite(ctx context.Context, host, title, description string) (*Site, error) {
	var site Site
	err := c.do(ctx, http.MethodPost, "/api/sites", map[string]string{
		"host":        host,
		"title":       title,
		"description": description,
	}, &site)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (c *Client) CreatePost(ctx context.Context, host, title, content string, images []string) (*Post, error) {
	var post Post
	err := c.do(ctx, http.MethodPost, "/api/sites/"+host+"/posts", map[string]any{
		"title":   title,
		"content": content,
		"images":  images,
	}, &post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) ListPosts(ctx context.Context, host string) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/sites/"+host+"/posts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// RequestUpload asks the server for a presigned PUT/GET pair.
func (c *Client) RequestUpload(ctx context.Context) (*Upload, error) {
	var upload Upload
	if err := c.do(ctx, http.MethodPost, "/api/uploads", nil, &upload); err != nil {
		return nil, err
	}
	return &upload, nil
}
