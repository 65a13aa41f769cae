package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/nathantheresa/portfolio/internal/logging"
	"github.com/nathantheresa/portfolio/internal/models"
)

var ErrChannelNotFound = errors.New("channel not found")

const (
	defaultViewCount = "0"
	defaultDuration  = "PT0S"
)

// VideoRecorder receives one observation per channel fetch
type VideoRecorder interface {
	ObserveVideoFetch(err error)
}

// VideoService lists the latest uploads of one YouTube channel
type VideoService struct {
	yt         *youtube.Service
	handle     string
	maxResults int64
	recorder   VideoRecorder
	logger     *logging.Logger
}

// NewVideoService creates the YouTube client. An empty apiKey yields a
// service whose Fetch always fails with ErrNotConfigured.
func NewVideoService(ctx context.Context, apiKey, handle string, maxResults int64, logger *logging.Logger, opts ...option.ClientOption) (*VideoService, error) {
	s := &VideoService{
		handle:     strings.TrimPrefix(handle, "@"),
		maxResults: maxResults,
		logger:     logger,
	}
	if apiKey == "" {
		return s, nil
	}

	yt, err := youtube.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube client: %w", err)
	}
	s.yt = yt
	return s, nil
}

func (s *VideoService) SetRecorder(r VideoRecorder) {
	s.recorder = r
}

// Fetch returns one page of the channel's videos, newest first
func (s *VideoService) Fetch(ctx context.Context, pageToken string) (*models.VideoPage, error) {
	page, err := s.fetch(ctx, pageToken)
	if s.recorder != nil {
		s.recorder.ObserveVideoFetch(err)
	}
	return page, err
}

func (s *VideoService) fetch(ctx context.Context, pageToken string) (*models.VideoPage, error) {
	if s.yt == nil {
		return nil, fmt.Errorf("youtube api key: %w", ErrNotConfigured)
	}

	s.logger.Debug("Fetching videos for channel @%s (page token %q)", s.handle, pageToken)

	channels, err := s.yt.Channels.List([]string{"id", "snippet"}).
		ForHandle("@" + s.handle).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube api error (channels): %w", err)
	}
	if len(channels.Items) == 0 {
		return nil, ErrChannelNotFound
	}
	channelID := channels.Items[0].Id

	search := s.yt.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Order("date").
		Type("video").
		MaxResults(s.maxResults)
	if pageToken != "" {
		search = search.PageToken(pageToken)
	}
	results, err := search.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("youtube api error (search/list): %w", err)
	}

	page := &models.VideoPage{Videos: []models.Video{}}
	if results.NextPageToken != "" {
		next := results.NextPageToken
		page.NextPageToken = &next
	}

	var ids []string
	for _, item := range results.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	if len(ids) == 0 {
		s.logger.Info("No video ids returned by search for channel %s", channelID)
		return page, nil
	}

	details, err := s.yt.Videos.List([]string{"statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube api error (videos/details): %w", err)
	}

	byID := make(map[string]*youtube.Video, len(details.Items))
	for _, v := range details.Items {
		byID[v.Id] = v
	}

	for _, item := range results.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		page.Videos = append(page.Videos, toVideo(item, byID[item.Id.VideoId]))
	}

	s.logger.Info("Fetched %d videos for channel %s", len(page.Videos), channelID)
	return page, nil
}

func toVideo(item *youtube.SearchResult, details *youtube.Video) models.Video {
	v := models.Video{
		ID:        item.Id.VideoId,
		ViewCount: defaultViewCount,
		Duration:  defaultDuration,
	}
	if sn := item.Snippet; sn != nil {
		v.Title = sn.Title
		v.Description = sn.Description
		v.PublishedAt = sn.PublishedAt
		v.ThumbnailURL = thumbnailURL(sn.Thumbnails)
	}
	if details != nil {
		if details.Statistics != nil && details.Statistics.ViewCount > 0 {
			v.ViewCount = strconv.FormatUint(details.Statistics.ViewCount, 10)
		}
		if details.ContentDetails != nil && details.ContentDetails.Duration != "" {
			v.Duration = details.ContentDetails.Duration
		}
	}
	return v
}

// thumbnailURL prefers high, then medium, then default
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
