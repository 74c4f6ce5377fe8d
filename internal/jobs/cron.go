package jobs

import (
    "context"
    "time"

    "github.com/robfig/cron/v3"
    "github.com/rs/zerolog"

    "github.com/angular-dynamo/projectpulse/internal/config"
)

type service interface {
    RunWeeklySnapshot(ctx context.Context) error
}

type Cron struct {
    cfg config.Config
    log zerolog.Logger
    svc service
    c   *cron.Cron
}

func NewCron(cfg config.Config, log zerolog.Logger, svc service) *Cron {
    loc, _ := time.LoadLocation(cfg.TZ)
    c := cron.New(cron.WithLocation(loc), cron.WithParser(cron.NewParser(cron.Minute|cron.Hour|cron.Dom|cron.Month|cron.Dow)))
    cr := &Cron{cfg: cfg, log: log, svc: svc, c: c}
    _, _ = c.AddFunc(cfg.SnapshotCron, cr.weekly)
    return cr
}

func (cr *Cron) Start() { cr.c.Start() }
func (cr *Cron) Stop()  { cr.c.Stop() }

// weekly snapshots the KPI series. The service holds the advisory lock, so
// overlapping instances skip instead of double-writing.
func (cr *Cron) weekly() {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute); defer cancel()
    cr.log.Info().Msg("cron: weekly kpi snapshot")
    if err := cr.svc.RunWeeklySnapshot(ctx); err != nil {
        cr.log.Error().Err(err).Msg("cron: snapshot failed")
    }
}
