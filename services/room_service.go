// Package services implements the stateless room pool behind the REST
// surface. It shares the store/assigner components with the realtime
// pool but runs with its own policy: global display-name uniqueness
// and deletion of drained rooms.
package services

import (
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	"matchroom/domain"
	errs "matchroom/errors"
	"matchroom/store"
)

const (
	MinUsernameLength = 2
	MaxUsernameLength = 20
	MaxContentLength  = 500
)

var validate = validator.New()

type joinParams struct {
	Username string `validate:"required,min=2,max=20"`
}

type postMessageParams struct {
	Username string `validate:"required"`
	Content  string `validate:"required,max=500"`
	RoomID   string `validate:"required"`
}

type IRoomService interface {
	Join(username string) (domain.Participant, *domain.Room, error)
	Leave(username, roomID string)
	ListUsers(roomID string) ([]domain.Participant, *domain.Room)
	Messages(roomID string) []domain.Message
	PostMessage(username, content, roomID string) (domain.Message, error)
	Stats() store.Stats
}

type RoomService struct {
	log      *slog.Logger
	store    *store.RoomStore
	assigner *store.Assigner
}

func NewRoomService(log *slog.Logger, st *store.RoomStore) *RoomService {
	return &RoomService{log: log, store: st, assigner: store.NewAssigner(st)}
}

// Join validates the trimmed username and places it in the pool using
// the same first-fit-or-create policy as the realtime pool. The
// username doubles as the participant id on this surface.
func (s *RoomService) Join(username string) (domain.Participant, *domain.Room, error) {
	name := strings.TrimSpace(username)
	if err := validate.Struct(joinParams{Username: name}); err != nil {
		return domain.Participant{}, nil, errs.ErrNameLength
	}

	p := domain.Participant{ID: strings.ToLower(name), DisplayName: name}
	room, err := s.assigner.Assign(p)
	if err != nil {
		return domain.Participant{}, nil, err
	}
	s.log.Info("User joined", "username", name, "room_id", room.ID)
	return p, room, nil
}

// Leave removes the member. The store deletes a drained room as long
// as another room remains; removing an unknown member is a no-op.
func (s *RoomService) Leave(username, roomID string) {
	id := strings.ToLower(strings.TrimSpace(username))
	if room, ok := s.store.RoomOf(id); !ok || room.ID != roomID {
		return
	}
	if left, ok := s.store.RemoveMember(id); ok {
		s.log.Info("User left", "username", username, "room_id", left)
	}
}

// ListUsers returns current members and room info, or a nil room when
// the id is unknown.
func (s *RoomService) ListUsers(roomID string) ([]domain.Participant, *domain.Room) {
	room, ok := s.store.Get(roomID)
	if !ok {
		return nil, nil
	}
	members := make([]domain.Participant, len(room.Members))
	copy(members, room.Members)
	return members, room
}

// Messages returns the room history, oldest first; empty when unknown.
func (s *RoomService) Messages(roomID string) []domain.Message {
	history, ok := s.store.History(roomID)
	if !ok {
		return nil
	}
	return history
}

// PostMessage validates and appends, returning the stored message.
func (s *RoomService) PostMessage(username, content, roomID string) (domain.Message, error) {
	params := postMessageParams{
		Username: strings.TrimSpace(username),
		Content:  strings.TrimSpace(content),
		RoomID:   strings.TrimSpace(roomID),
	}
	if err := validate.Struct(params); err != nil {
		for _, fieldErr := range err.(validator.ValidationErrors) {
			if fieldErr.Field() == "Content" && fieldErr.Tag() == "max" {
				return domain.Message{}, errs.ErrContentTooLong
			}
		}
		return domain.Message{}, errs.ErrEmptyField
	}
	return s.store.AppendMessage(roomID, domain.Message{
		SenderID:   strings.ToLower(strings.TrimSpace(username)),
		SenderName: strings.TrimSpace(username),
		Content:    content,
	})
}

func (s *RoomService) Stats() store.Stats {
	return s.store.Stats()
}
