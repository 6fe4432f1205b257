package sandbox

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ImageCache records which images were present after provisioning.
// It is built once and never modified, so it is safe for concurrent use.
type ImageCache struct {
	images map[string]struct{}
}

// NewStaticImageCache builds a cache from images already known to be present.
func NewStaticImageCache(images ...string) *ImageCache {
	c := &ImageCache{images: make(map[string]struct{}, len(images))}
	for _, ref := range images {
		c.images[ref] = struct{}{}
	}
	return c
}

// NewImageCache makes sure every image is available locally, pulling the
// missing ones concurrently. Any failure aborts provisioning.
func NewImageCache(ctx context.Context, cli ImageClient, images []string, logger *zap.Logger) (*ImageCache, error) {
	g, gctx := errgroup.WithContext(ctx)
	for _, ref := range images {
		g.Go(func() error {
			return ensureImage(gctx, cli, ref, logger)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Info("images provisioned", zap.Strings("images", images))
	return NewStaticImageCache(images...), nil
}

func ensureImage(ctx context.Context, cli ImageClient, ref string, logger *zap.Logger) error {
	_, err := cli.ImageInspect(ctx, ref)
	if err == nil {
		logger.Debug("image present", zap.String("image", ref))
		return nil
	}
	if !client.IsErrNotFound(err) {
		return fmt.Errorf("inspect image %s: %w", ref, err)
	}

	logger.Info("pulling image", zap.String("image", ref))
	rc, err := cli.ImagePull(ctx, ref, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	defer rc.Close()

	// The daemon reports pull failures inside the progress stream.
	if err := jsonmessage.DisplayJSONMessagesStream(rc, io.Discard, 0, false, nil); err != nil {
		return fmt.Errorf("pull image %s: %w", ref, err)
	}
	logger.Info("image pulled", zap.String("image", ref))
	return nil
}

// Has reports whether ref was provisioned.
func (c *ImageCache) Has(ref string) bool {
	_, ok := c.images[ref]
	return ok
}

// Images returns the provisioned references in sorted order.
func (c *ImageCache) Images() []string {
	out := make([]string, 0, len(c.images))
	for ref := range c.images {
		out = append(out, ref)
	}
	slices.Sort(out)
	return out
}

// SweepStaleContainers force-removes managed containers left behind by a
// previous process. It returns the number removed.
func SweepStaleContainers(ctx context.Context, cli ContainerClient, logger *zap.Logger) (int, error) {
	stale, err := cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("label", LabelManaged+"=true")),
	})
	if err != nil {
		return 0, fmt.Errorf("list managed containers: %w", err)
	}

	removed := 0
	for _, c := range stale {
		err := cli.ContainerRemove(ctx, c.ID, container.RemoveOptions{Force: true, RemoveVolumes: true})
		if err != nil && !client.IsErrNotFound(err) {
			logger.Warn("failed to remove stale container", zap.String("container_id", shortID(c.ID)), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("removed stale containers", zap.Int("count", removed))
	}
	return removed, nil
}
