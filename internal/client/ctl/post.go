package ctl

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/gophpress/internal/netx"
)

func (a *App) runAddPost(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-post", flag.ContinueOnError)
	host := fs.String("host", "", "site hostname")
	title := fs.String("title", "", "post title")
	content := fs.String("content", "", "post source text")
	image := fs.String("image", "", "path to an image to upload and attach")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *host == "" || *title == "" {
		return fmt.Errorf("add-post: -host and -title are required")
	}
	if err := a.requireToken(); err != nil {
		return err
	}

	var images []string
	if *image != "" {
		url, err := a.uploadImage(ctx, *image)
		if err != nil {
			return err
		}
		images = append(images, url)
	}

	post, err := a.api.CreatePost(ctx, *host, *title, *content, images)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created post %s\n", post.Slug)
	return nil
}

// uploadImage pushes a local file to the object store through a presigned
// PUT URL and returns the matching GET URL to embed in the post.
func (a *App) uploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	upload, err := a.api.RequestUpload(ctx)
	if err != nil {
		return "", err
	}

	if err := netx.UploadToPresignedURL(ctx, upload.PutURL, data); err != nil {
		return "", err
	}

	return upload.GetURL, nil
}
