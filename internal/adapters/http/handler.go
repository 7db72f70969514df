package http

import (
	"errors"
	"io/fs"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
	"github.com/valentinmaxime/docker-seedbox/internal/core/ports"
	"github.com/valentinmaxime/docker-seedbox/internal/core/service"
)

// cpuSampleWindow is the short sample taken for /api/sysinfo's cpu.percent.
const cpuSampleWindow = 100 * time.Millisecond

const defaultLogTail = 200

// Handler exposes the control-plane API over fiber.
type Handler struct {
	agg     *service.Aggregator
	disp    *service.Dispatcher
	runtime ports.ContainerRuntime
	metrics ports.HostMetrics
	hostFS  string
	log     zerolog.Logger
}

func NewHandler(agg *service.Aggregator, disp *service.Dispatcher, runtime ports.ContainerRuntime, metrics ports.HostMetrics, hostFS string, log zerolog.Logger) *Handler {
	return &Handler{agg: agg, disp: disp, runtime: runtime, metrics: metrics, hostFS: hostFS, log: log}
}

// Register attaches all routes under the given group.
func (h *Handler) Register(api fiber.Router) {
	api.Get("/status", h.Status)
	api.Post("/service/:key/:action", h.ServiceAction)
	api.Get("/service/:key/logs", h.ServiceLogs)
	api.Get("/sysinfo", h.SysInfo)
	api.Get("/health", h.Health)
}

// Status returns per-service state for every whitelisted service.
func (h *Handler) Status(c *fiber.Ctx) error {
	return c.JSON(h.agg.Statuses(c.Context()))
}

// ServiceAction controls an allowed service: start|stop|restart.
func (h *Handler) ServiceAction(c *fiber.Ctx) error {
	key := c.Params("key")
	action := c.Params("action")
	if aerr := h.disp.Perform(c.Context(), key, action); aerr != nil {
		return jsonError(c, statusFor(aerr.Category), aerr.Message)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// ServiceLogs streams the tail of a whitelisted service's container logs as
// plain text. ?tail=N bounds the number of lines.
func (h *Handler) ServiceLogs(c *fiber.Ctx) error {
	tail := strconv.Itoa(defaultLogTail)
	if n := c.QueryInt("tail"); n > 0 {
		tail = strconv.Itoa(n)
	}
	logs, aerr := h.agg.Logs(c.Context(), c.Params("key"), tail)
	if aerr != nil {
		return jsonError(c, statusFor(aerr.Category), aerr.Message)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendStream(logs)
}

// Health pings the container runtime's control socket.
func (h *Handler) Health(c *fiber.Ctx) error {
	if err := h.runtime.Ping(c.Context()); err != nil {
		return jsonError(c, fiber.StatusBadGateway, err.Error())
	}
	return c.JSON(fiber.Map{"ok": true})
}

type diskInfo struct {
	Path    string  `json:"path"`
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

type ramInfo struct {
	Total   uint64  `json:"total"`
	Used    uint64  `json:"used"`
	Free    uint64  `json:"free"`
	Percent float64 `json:"percent"`
}

type cpuInfo struct {
	Percent float64  `json:"percent"`
	Load1   *float64 `json:"load1"`
	Load5   *float64 `json:"load5"`
	Load15  *float64 `json:"load15"`
}

type sysInfoResponse struct {
	Disk diskInfo `json:"disk"`
	RAM  ramInfo  `json:"ram"`
	CPU  cpuInfo  `json:"cpu"`
}

// SysInfo returns disk, RAM, and CPU metrics read from the host mounts.
// Load averages degrade to null when the platform cannot provide them;
// disk and RAM/CPU read failures are reported as 500s.
func (h *Handler) SysInfo(c *fiber.Ctx) error {
	du, err := h.metrics.DiskUsage(h.hostFS)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return jsonError(c, fiber.StatusInternalServerError, "Host filesystem mount not found at "+h.hostFS)
		}
		return jsonError(c, fiber.StatusInternalServerError, "Failed to read disk usage: "+err.Error())
	}

	ram, err := h.metrics.Memory()
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to read RAM/CPU stats: "+err.Error())
	}
	cpuPct, err := h.metrics.CPUPercent(cpuSampleWindow)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to read RAM/CPU stats: "+err.Error())
	}

	resp := sysInfoResponse{
		Disk: diskInfo{Path: du.Path, Total: du.Total, Used: du.Used, Free: du.Free, Percent: du.Percent},
		RAM:  ramInfo{Total: ram.Total, Used: ram.Used, Free: ram.Free, Percent: ram.Percent},
		CPU:  cpuInfo{Percent: cpuPct},
	}
	if avg, err := h.metrics.LoadAverages(); err == nil {
		resp.CPU.Load1 = &avg.Load1
		resp.CPU.Load5 = &avg.Load5
		resp.CPU.Load15 = &avg.Load15
	} else {
		h.log.Debug().Err(err).Msg("load averages unavailable")
	}
	return c.JSON(resp)
}

// jsonError renders the structured error envelope every failure uses.
func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"ok": false,
		"error": fiber.Map{
			"code":    status,
			"message": message,
		},
	})
}

// statusFor maps dispatcher error categories onto HTTP status codes.
func statusFor(cat domain.Category) int {
	switch cat {
	case domain.InvalidAction:
		return fiber.StatusBadRequest
	case domain.UnknownService, domain.NotFound:
		return fiber.StatusNotFound
	case domain.Forbidden:
		return fiber.StatusForbidden
	case domain.RuntimeFailure:
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
