package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/costurapp/costurapp-backend/internal/feed"
	"github.com/costurapp/costurapp-backend/internal/phone"
	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
)

var (
	ErrUnknownChannel = errors.New("unknown contact channel")
	ErrNoPhone        = errors.New("no contact phone on record")
)

// Link is what the client opens: a deep link plus the channel it serves.
type Link struct {
	Channel string `json:"canal"`
	URL     string `json:"url"`
}

// Service resolves contact requests against posts and profiles, counting
// clicks along the way.
type Service struct {
	feed          *feed.Service
	profiles      *profiles.Service
	publicBaseURL string
}

func NewService(feedSvc *feed.Service, profilesSvc *profiles.Service, publicBaseURL string) *Service {
	return &Service{feed: feedSvc, profiles: profilesSvc, publicBaseURL: publicBaseURL}
}

// ForPost resolves a contact link for a post. WhatsApp and call channels
// consume one unit of the post's weekly contact budget; sharing is free.
func (s *Service) ForPost(ctx context.Context, postID uuid.UUID, channel string) (*Link, error) {
	post, err := s.feed.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	switch channel {
	case ChannelShare:
		return &Link{
			Channel: ChannelShare,
			URL:     ShareLink(s.publicBaseURL, "/publicaciones/"+post.ID.String(), "Mira esta publicación en CosturApp"),
		}, nil
	case ChannelWhatsApp, ChannelCall:
	default:
		return nil, ErrUnknownChannel
	}

	if post.ContactPhone == "" {
		return nil, ErrNoPhone
	}
	number, err := phone.FormatNumber(post.ContactPhone)
	if err != nil {
		return nil, fmt.Errorf("stored contact phone: %w", err)
	}

	if err := s.feed.RegisterContact(ctx, post.ID); err != nil {
		return nil, err
	}

	if channel == ChannelWhatsApp {
		msg := "Hola, vi tu publicación en CosturApp y me interesa."
		return &Link{Channel: ChannelWhatsApp, URL: WhatsAppLink(number, msg)}, nil
	}
	return &Link{Channel: ChannelCall, URL: CallLink(number)}, nil
}

// ForProfile resolves a contact link for a profile page.
func (s *Service) ForProfile(ctx context.Context, profileID uuid.UUID, channel string) (*Link, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	switch channel {
	case ChannelShare:
		return &Link{
			Channel: ChannelShare,
			URL:     ShareLink(s.publicBaseURL, "/perfiles/"+profile.ID.String(), "Mira este perfil en CosturApp"),
		}, nil
	case ChannelWhatsApp, ChannelCall:
	default:
		return nil, ErrUnknownChannel
	}

	if profile.Phone == "" {
		return nil, ErrNoPhone
	}
	number, err := phone.FormatNumber(profile.Phone)
	if err != nil {
		return nil, fmt.Errorf("stored contact phone: %w", err)
	}

	if err := s.profiles.RegisterContactClick(ctx, profile.ID); err != nil {
		return nil, err
	}

	if channel == ChannelWhatsApp {
		msg := "Hola, encontré tu perfil en CosturApp y quiero contactarte."
		return &Link{Channel: ChannelWhatsApp, URL: WhatsAppLink(number, msg)}, nil
	}
	return &Link{Channel: ChannelCall, URL: CallLink(number)}, nil
}
