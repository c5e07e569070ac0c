// kanoonsathi/routes/chat.go
package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"kanoonsathi/kanoonsathi/controllers"
	"kanoonsathi/kanoonsathi/types"
)

func ChatRoutes(ctrl *controllers.ChatController) chi.Router {
	r := chi.NewRouter()

	// GET /chat/state : the reconciled conversation list + active id
	r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
		writeData(w, http.StatusOK, ctrl.State())
	})

	// POST /chat/refresh : refetch the conversation list from the backend
	r.Post("/refresh", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Bootstrap(r.Context()); err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeData(w, http.StatusOK, ctrl.State())
	})

	// POST /chat/select : activate a conversation, hydrating it on first visit
	r.Post("/select", func(w http.ResponseWriter, r *http.Request) {
		var req types.SelectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ctrl.Select(r.Context(), req.ID); err != nil {
			if errors.Is(err, controllers.ErrUnknownConversation) {
				writeError(w, http.StatusNotFound, err.Error())
			} else {
				writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}
		writeData(w, http.StatusOK, ctrl.ActiveConversation())
	})

	// POST /chat/new : start a conversation
	r.Post("/new", func(w http.ResponseWriter, r *http.Request) {
		id, err := ctrl.NewChat(r.Context())
		if err != nil {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeData(w, http.StatusCreated, map[string]string{"id": id})
	})

	// POST /chat/send : one user turn, answered by the assistant
	r.Post("/send", func(w http.ResponseWriter, r *http.Request) {
		var req types.SendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ctrl.Send(r.Context(), req.Content); err != nil {
			if errors.Is(err, controllers.ErrSendPending) {
				writeError(w, http.StatusConflict, err.Error())
			} else {
				writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}
		writeData(w, http.StatusOK, ctrl.ActiveConversation())
	})

	// PUT /chat/{chat_id}/title : rename
	r.Put("/{chat_id}/title", func(w http.ResponseWriter, r *http.Request) {
		var req types.RenameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := ctrl.Rename(r.Context(), chi.URLParam(r, "chat_id"), req.Title); err != nil {
			if errors.Is(err, controllers.ErrUnknownConversation) {
				writeError(w, http.StatusNotFound, err.Error())
			} else {
				writeError(w, http.StatusBadRequest, err.Error())
			}
			return
		}
		writeData(w, http.StatusOK, ctrl.State())
	})

	// DELETE /chat/{chat_id}
	r.Delete("/{chat_id}", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.Delete(r.Context(), chi.URLParam(r, "chat_id")); err != nil {
			if errors.Is(err, controllers.ErrUnknownConversation) {
				writeError(w, http.StatusNotFound, err.Error())
			} else {
				writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
