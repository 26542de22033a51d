package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/worker"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
)

type WorkerHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type workerHandlerImpl struct {
	workers worker.Directory
}

func NewWorkerHandler(workers worker.Directory) WorkerHandler {
	return &workerHandlerImpl{workers: workers}
}

// List handles GET /workers
func (h *workerHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.workers.List())
}
