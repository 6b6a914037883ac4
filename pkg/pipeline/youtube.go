package pipeline

import (
	"context"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

// pickAudioFormat selects the best audio-only format for a video. Opus-encoded
// WebM streams are preferred because the voice transport is opus anyway; itag
// 251 is the usual 160 kbps opus stream.
func pickAudioFormat(video *youtube.Video) (*youtube.Format, error) {
	formats := video.Formats.WithAudioChannels()
	formats = formats.Type("audio")

	for i := range formats {
		if formats[i].ItagNo == 251 {
			return &formats[i], nil
		}
	}
	for i := range formats {
		if strings.Contains(formats[i].MimeType, "opus") {
			return &formats[i], nil
		}
	}
	if len(formats) > 0 {
		formats.Sort()
		return &formats[0], nil
	}
	return nil, errors.New("no audio formats available")
}

// DirectStreamStrategy asks the YouTube client for a ready-to-decode stream
// body. This is the primary, cheapest path.
type DirectStreamStrategy struct {
	Client *youtube.Client
}

func (s *DirectStreamStrategy) Name() string { return "youtube-stream" }

func (s *DirectStreamStrategy) Acquire(ctx context.Context, locator string) (*Source, error) {
	video, err := s.Client.GetVideoContext(ctx, locator)
	if err != nil {
		return nil, errors.Wrap(err, "fetching video")
	}

	format, err := pickAudioFormat(video)
	if err != nil {
		return nil, err
	}

	body, _, err := s.Client.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, errors.Wrap(err, "opening stream")
	}

	return &Source{Body: body, MimeType: format.MimeType}, nil
}

// InfoStreamStrategy fetches video info first and then resolves a raw stream
// URL from it, handling cases where the direct strategy's assumptions about
// availability are wrong. The URL is fed to the transcoder, which fetches it
// itself with reconnect support.
type InfoStreamStrategy struct {
	Client *youtube.Client
}

func (s *InfoStreamStrategy) Name() string { return "youtube-info" }

func (s *InfoStreamStrategy) Acquire(ctx context.Context, locator string) (*Source, error) {
	video, err := s.Client.GetVideoContext(ctx, locator)
	if err != nil {
		return nil, errors.Wrap(err, "fetching video info")
	}

	format, err := pickAudioFormat(video)
	if err != nil {
		return nil, err
	}

	streamURL, err := s.Client.GetStreamURLContext(ctx, video, format)
	if err != nil {
		return nil, errors.Wrap(err, "resolving stream URL")
	}
	if streamURL == "" {
		return nil, errors.New("empty stream URL")
	}

	return &Source{URL: streamURL, MimeType: format.MimeType}, nil
}
