package console

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jwalitptl/admin-console/internal/model"
	"github.com/jwalitptl/admin-console/pkg/errors"
)

const (
	familyChatRooms    = "admin-chat-rooms"
	familyChatMessages = "admin-chat-messages"
	familyChatFlagged  = "admin-chat-flagged"
)

// Chat tabs
const (
	TabFlagged  = "flagged"
	TabMessages = "messages"
	TabRooms    = "rooms"
)

// NoFilter is the filter of lists that take none.
type NoFilter struct{}

func noParams(NoFilter) map[string]string { return nil }

// RoomForm is the create room form. Slug is only taken as typed when
// SlugEdited is set; otherwise it is derived from Name on submit.
type RoomForm struct {
	Name             string `json:"name" form:"name" binding:"required"`
	Slug             string `json:"slug" form:"slug" binding:"omitempty,slug"`
	SlugEdited       bool   `json:"slugEdited" form:"slugEdited"`
	Description      string `json:"description" form:"description"`
	TopicDescription string `json:"topicDescription" form:"topicDescription"`
	IsPrivate        bool   `json:"isPrivate" form:"isPrivate"`
}

// Request builds the create room body.
func (f RoomForm) Request() model.CreateRoomRequest {
	slug := strings.TrimSpace(f.Slug)
	if !f.SlugEdited || slug == "" {
		slug = Slugify(f.Name)
	}
	return model.CreateRoomRequest{
		Name:             strings.TrimSpace(f.Name),
		Slug:             slug,
		Description:      f.Description,
		TopicDescription: f.TopicDescription,
		IsPrivate:        f.IsPrivate,
	}
}

// ChatPage moderates chat through three tabs, each its own list.
type ChatPage struct {
	Rooms    *List[model.ChatRoom, NoFilter]
	Messages *List[model.ChatMessage, model.ChatMessageFilter]
	Flagged  *List[model.ChatMessage, NoFilter]

	svc Services
	mut *Mutator

	mu  sync.Mutex
	tab string
}

// ChatView renders the active tab only.
type ChatView struct {
	Tab      string                                                `json:"tab"`
	Rooms    *ListView[model.ChatRoom, NoFilter]                   `json:"rooms,omitempty"`
	Messages *ListView[model.ChatMessage, model.ChatMessageFilter] `json:"messages,omitempty"`
	Flagged  *ListView[model.ChatMessage, NoFilter]                `json:"flagged,omitempty"`
}

func NewChatPage(d Deps) *ChatPage {
	chat := d.Chat
	return &ChatPage{
		svc: d.Services,
		mut: newMutator("chat", d),
		tab: TabFlagged,
		Rooms: NewList[model.ChatRoom, NoFilter](d.Cache, familyChatRooms, NoFilter{}, noParams,
			func(ctx context.Context, p model.ListParams, _ NoFilter) (model.Page[model.ChatRoom], error) {
				return chat.ListRooms(ctx, p)
			}),
		Messages: NewList[model.ChatMessage, model.ChatMessageFilter](d.Cache, familyChatMessages, model.ChatMessageFilter{},
			func(f model.ChatMessageFilter) map[string]string {
				return map[string]string{"roomId": f.RoomID, "flagged": f.Flagged}
			},
			chat.ListMessages),
		Flagged: NewList[model.ChatMessage, NoFilter](d.Cache, familyChatFlagged, NoFilter{}, noParams,
			func(ctx context.Context, p model.ListParams, _ NoFilter) (model.Page[model.ChatMessage], error) {
				return chat.ListFlagged(ctx, p)
			}),
	}
}

func (p *ChatPage) Tab() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tab
}

// SetTab switches tabs and loads page 1 of the new one.
func (p *ChatPage) SetTab(ctx context.Context, tab string) (ChatView, error) {
	switch tab {
	case TabFlagged, TabMessages, TabRooms:
	default:
		return ChatView{}, errors.NewBadRequest(fmt.Sprintf("unknown chat tab %q", tab), nil)
	}
	p.mu.Lock()
	p.tab = tab
	p.mu.Unlock()
	return p.SetPage(ctx, 1)
}

// Load fetches the current page of the active tab.
func (p *ChatPage) Load(ctx context.Context) (ChatView, error) {
	var err error
	switch p.Tab() {
	case TabRooms:
		_, err = p.Rooms.Load(ctx)
	case TabMessages:
		_, err = p.Messages.Load(ctx)
	default:
		_, err = p.Flagged.Load(ctx)
	}
	return p.View(), err
}

func (p *ChatPage) SetPage(ctx context.Context, page int) (ChatView, error) {
	var err error
	switch p.Tab() {
	case TabRooms:
		_, err = p.Rooms.SetPage(ctx, page)
	case TabMessages:
		_, err = p.Messages.SetPage(ctx, page)
	default:
		_, err = p.Flagged.SetPage(ctx, page)
	}
	return p.View(), err
}

func (p *ChatPage) View() ChatView {
	v := ChatView{Tab: p.Tab()}
	switch v.Tab {
	case TabRooms:
		rv := p.Rooms.View()
		v.Rooms = &rv
	case TabMessages:
		mv := p.Messages.View()
		v.Messages = &mv
	default:
		fv := p.Flagged.View()
		v.Flagged = &fv
	}
	return v
}

func (p *ChatPage) CreateRoom(ctx context.Context, form RoomForm) (*model.ChatRoom, error) {
	req := form.Request()
	if req.Name == "" {
		return nil, errors.NewBadRequest("room name is required", nil)
	}
	var room *model.ChatRoom
	err := p.mut.Run(ctx, Mutation{
		Action:   "create-room",
		Meta:     map[string]string{"name": req.Name, "slug": req.Slug},
		Families: []string{familyChatRooms},
		Do: func(ctx context.Context) error {
			var err error
			room, err = p.svc.Chat.CreateRoom(ctx, req)
			return err
		},
	})
	return room, err
}

// DeleteRoom removes a room with all of its messages.
func (p *ChatPage) DeleteRoom(ctx context.Context, id string, confirmed bool) error {
	name := id
	if room, ok := p.Rooms.Find(id); ok {
		name = room.Name
	}
	prompt := fmt.Sprintf("Are you sure you want to delete \"%s\"? This will delete all messages in this room.", name)
	if err := Confirm(confirmed, prompt); err != nil {
		return err
	}
	return p.mut.Run(ctx, Mutation{
		Action:   "delete-room",
		IDs:      []string{id},
		Families: []string{familyChatRooms, familyChatMessages, familyChatFlagged},
		Do:       func(ctx context.Context) error { return p.svc.Chat.DeleteRoom(ctx, id) },
	})
}

func (p *ChatPage) DeleteMessage(ctx context.Context, id string, confirmed bool) error {
	if err := Confirm(confirmed, "Are you sure you want to delete this message?"); err != nil {
		return err
	}
	return p.mut.Run(ctx, Mutation{
		Action:   "delete-message",
		IDs:      []string{id},
		Families: []string{familyChatMessages, familyChatFlagged},
		Do:       func(ctx context.Context) error { return p.svc.Chat.DeleteMessage(ctx, id) },
	})
}
