package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api/v1", func(r chi.Router) {
		// routes without authorization
		r.Post("/authentication/signup", h.signup)
		r.Post("/authentication/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.auth)

			r.Post("/authentication/logout", h.logout)

			r.Route("/collection", func(r chi.Router) {
				r.Get("/", h.listCollections)
				r.Post("/", h.createCollection)
				r.Post("/list_multi", h.listCollectionsMulti)

				r.Route("/{collectionUID}", func(r chi.Router) {
					r.Get("/", h.getCollection)

					r.Get("/item", h.listItems)
					r.Get("/item/{itemUID}", h.getItem)
					r.Get("/item/{itemUID}/revision", h.listRevisions)
					r.Post("/item/fetch_updates", h.fetchUpdates)
					r.Post("/item/transaction", h.transaction)
					r.Post("/item/batch", h.batch)

					r.Put("/chunk/{chunkUID}", h.uploadChunk)
					r.Get("/chunk/{chunkUID}/download", h.downloadChunk)

					r.Get("/member", h.listMembers)
					r.Delete("/member/{username}", h.revokeMember)
					r.Patch("/member/{username}", h.patchMember)
					r.Post("/member/leave", h.leaveCollection)
				})
			})

			r.Route("/invitation", func(r chi.Router) {
				r.Get("/outgoing", h.listOutgoingInvitations)
				r.Post("/outgoing", h.createInvitation)
				r.Delete("/outgoing/{invitationUID}", h.deleteOutgoingInvitation)
				r.Get("/outgoing/fetch_user_profile", h.fetchUserProfile)

				r.Get("/incoming", h.listIncomingInvitations)
				r.Delete("/incoming/{invitationUID}", h.deleteIncomingInvitation)
				r.Post("/incoming/{invitationUID}/accept", h.acceptInvitation)
			})
		})
	})

	return router
}
