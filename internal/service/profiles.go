package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/atinyakov/taskboard/internal/identity"
	"github.com/atinyakov/taskboard/internal/media"
	"github.com/atinyakov/taskboard/internal/models"
	"github.com/atinyakov/taskboard/internal/policy"
	"github.com/atinyakov/taskboard/internal/repository"
	"github.com/atinyakov/taskboard/internal/validator"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// AvatarStore persists avatar files.
type AvatarStore interface {
	Save(rel string, up media.Upload) error
	Rename(from, to string) error
	Remove(rel string) error
}

// ProfileInput is the caller-writable part of a profile. The owning user
// is never part of it.
type ProfileInput struct {
	// Avatar replaces the current image when set.
	Avatar *media.Upload
	// ClearAvatar drops the image reference when no Avatar is given.
	ClearAvatar bool
}

// ProfileService manages profiles.
type ProfileService struct {
	profiles ProfileRepository
	avatars  AvatarStore
}

// NewProfileService constructs a ProfileService.
func NewProfileService(profiles ProfileRepository, avatars AvatarStore) *ProfileService {
	return &ProfileService{profiles: profiles, avatars: avatars}
}

// Create stores a profile owned by the caller. A caller that already owns
// one gets ErrProfileExists and the existing profile is left untouched.
func (s *ProfileService) Create(ctx context.Context, caller identity.Caller, in ProfileInput) (*models.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := policy.CheckMethod(policy.Profiles, http.MethodPost); err != nil {
		return nil, err
	}
	if err := validateAvatar(in.Avatar); err != nil {
		return nil, err
	}

	p := &models.Profile{UserID: caller.ID}
	var rel string
	if in.Avatar != nil {
		rel = media.AvatarPath(caller.ID, in.Avatar.Filename)
		p.Img = &rel
	}

	if err := s.profiles.Create(ctx, p); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrProfileExists
		case errors.Is(err, repository.ErrReference):
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	if in.Avatar != nil {
		if err := s.avatars.Save(rel, *in.Avatar); err != nil {
			if derr := s.profiles.Delete(ctx, p.ID); derr != nil {
				err = errors.Join(err, fmt.Errorf("roll back profile %d: %w", p.ID, derr))
			}
			return nil, fmt.Errorf("store avatar: %w", err)
		}
	}
	return p, nil
}

func (s *ProfileService) Get(ctx context.Context, caller identity.Caller, id int64) (*models.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *ProfileService) List(ctx context.Context, caller identity.Caller) ([]models.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	return s.profiles.List(ctx)
}

// Update replaces the avatar of profile id. The owning user stays as is.
func (s *ProfileService) Update(ctx context.Context, caller identity.Caller, id int64, in ProfileInput) (*models.Profile, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	if err := policy.CheckMethod(policy.Profiles, http.MethodPut); err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := validateAvatar(in.Avatar); err != nil {
		return nil, err
	}

	var old string
	if p.Img != nil {
		old = *p.Img
	}

	// A new avatar is staged beside the live file and only replaces it once
	// the record is updated.
	var rel, staged string
	switch {
	case in.Avatar != nil:
		rel = media.AvatarPath(p.UserID, in.Avatar.Filename)
		staged = media.StagingPath(rel)
		if err := s.avatars.Save(staged, *in.Avatar); err != nil {
			return nil, fmt.Errorf("store avatar: %w", err)
		}
		p.Img = &rel
	case in.ClearAvatar:
		p.Img = nil
	default:
		return p, nil
	}

	if err := s.profiles.Update(ctx, p); err != nil {
		if staged != "" {
			_ = s.avatars.Remove(staged)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if staged != "" {
		if err := s.avatars.Rename(staged, rel); err != nil {
			return nil, fmt.Errorf("commit avatar: %w", err)
		}
	}

	if old != "" && (p.Img == nil || *p.Img != old) {
		// The record no longer points at it; a leftover file is harmless.
		_ = s.avatars.Remove(old)
	}
	return p, nil
}

// PartialUpdate is never permitted for profiles.
func (s *ProfileService) PartialUpdate(ctx context.Context, caller identity.Caller, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return disabledOp(policy.Profiles, http.MethodPatch)
}

// Delete is never permitted for profiles.
func (s *ProfileService) Delete(ctx context.Context, caller identity.Caller, id int64) error {
	if err := requireCaller(caller); err != nil {
		return err
	}
	return disabledOp(policy.Profiles, http.MethodDelete)
}

func validateAvatar(up *media.Upload) error {
	if up == nil {
		return nil
	}
	errs := validator.New()
	if !imageExtensions[strings.ToLower(path.Ext(up.Filename))] {
		errs.Add("img", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return errs.Err()
}
