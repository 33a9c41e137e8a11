package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/matheus3301/p2pm/internal/chat"
	"github.com/matheus3301/p2pm/internal/wire"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"
)

// Handler exposes the daemon services as JSON over HTTP.
type Handler struct {
	profile wire.ProfileServiceServer
	chats   wire.ChatServiceServer
	msgs    wire.MessageServiceServer
	logger  *zap.Logger
}

// NewHandler creates a handler over the same services the gRPC server uses.
func NewHandler(profile wire.ProfileServiceServer, chats wire.ChatServiceServer, msgs wire.MessageServiceServer, logger *zap.Logger) *Handler {
	return &Handler{profile: profile, chats: chats, msgs: msgs, logger: logger}
}

type sendRequest struct {
	Text       string           `json:"text"`
	Attachment *chat.Attachment `json:"attachment,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st, err := h.profile.GetStatus(r.Context(), &wire.Empty{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "profile": st.Profile, "state": st.Status})
}

func (h *Handler) GetIdentity(w http.ResponseWriter, r *http.Request) {
	resp, err := h.profile.GetIdentity(r.Context(), &wire.Empty{})
	if err != nil {
		h.writeError(w, err)
		return
	}
	if resp.Identity == nil {
		http.Error(w, "no identity yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, resp.Identity)
}

func (h *Handler) SetIdentity(w http.ResponseWriter, r *http.Request) {
	var req wire.SetIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.profile.SetIdentity(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Identity)
}

func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	resp, err := h.chats.ListConversations(r.Context(), &wire.ListConversationsRequest{Filter: r.URL.Query().Get("filter")})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req wire.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.chats.StartConversation(r.Context(), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Conversation)
}

func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	resp, err := h.chats.GetConversation(r.Context(), &wire.ConversationRequest{ID: chi.URLParam(r, "conversationID")})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Conversation)
}

func (h *Handler) SelectConversation(w http.ResponseWriter, r *http.Request) {
	resp, err := h.chats.SelectConversation(r.Context(), &wire.ConversationRequest{ID: chi.URLParam(r, "conversationID")})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp.Conversation)
}

func (h *Handler) ClearFocus(w http.ResponseWriter, r *http.Request) {
	if _, err := h.chats.ClearFocus(r.Context(), &wire.Empty{}); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	resp, err := h.msgs.SendMessage(r.Context(), &wire.SendMessageRequest{
		ConversationID: chi.URLParam(r, "conversationID"),
		Text:           req.Text,
		Attachment:     req.Attachment,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp.Message)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	resp, err := h.chats.SearchMessages(r.Context(), &wire.SearchMessagesRequest{
		Query:          q.Get("q"),
		ConversationID: q.Get("conversation"),
		Limit:          limit,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	st, _ := grpcstatus.FromError(err)
	code := httpStatus(st.Code())
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	writeJSON(w, code, map[string]string{"error": st.Message()})
}

func httpStatus(c codes.Code) int {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.NotFound:
		return http.StatusNotFound
	case codes.AlreadyExists, codes.FailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
