package controllers

import (
	"net/http"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/justatarek/ergodnc/internal/utils"
)

type HealthController struct {
	pool *pgxpool.Pool
}

func NewHealthController(pool *pgxpool.Pool) *HealthController {
	return &HealthController{pool: pool}
}

// GET /health
func (c *HealthController) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.pool.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(
			w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err,
		)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
