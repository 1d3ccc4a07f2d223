package resolver

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"vibe-dj/internal/ai"
	"vibe-dj/internal/youtube"
)

const (
	StatusMissingInput = "missing-input"
	StatusInternal     = "internal"
)

type Request struct {
	Theme string `json:"theme"`
}

type Response struct {
	Songs       []ai.Song `json:"songs"`
	PlaylistURL string    `json:"playlistUrl"`
}

// Error is the failure half of the resolution contract. Status is the only
// machine-readable discriminator; upstream details never cross this boundary.
type Error struct {
	Status  string `json:"status"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

// Service is the transport-agnostic resolution request boundary. Exactly one
// of Response/Error is returned.
type Service struct {
	Resolver SongResolver
	Log      *slog.Logger
}

func NewService(r SongResolver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{Resolver: r, Log: log}
}

func (s *Service) Resolve(ctx context.Context, req Request) (*Response, *Error) {
	theme := strings.TrimSpace(req.Theme)
	if theme == "" {
		return nil, &Error{Status: StatusMissingInput, Message: "Theme is required"}
	}

	reqID := uuid.NewString()
	s.Log.Debug("resolving theme", "request_id", reqID, "theme", theme)

	songs, err := s.Resolver.ResolveSongs(ctx, theme)
	if err != nil {
		// Pipeline failures collapse to one opaque error; the cause stays in
		// the diagnostic log keyed by request id.
		s.Log.Debug("resolution failed", "request_id", reqID, "error", err)
		return nil, &Error{Status: StatusInternal, Message: "Internal server error. Check diagnostics for details."}
	}
	if songs == nil {
		songs = []ai.Song{}
	}

	s.Log.Debug("resolved theme", "request_id", reqID, "songs", len(songs))
	return &Response{
		Songs:       songs,
		PlaylistURL: youtube.EmbedPlaylistURL(songs),
	}, nil
}
