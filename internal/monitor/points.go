package monitor

import (
	"time"

	"github.com/dinorampage/combat/internal/influx"
	"github.com/dinorampage/combat/internal/model"
	"github.com/dinorampage/combat/pkg/core"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
)

func statsPoint(status Status, s *core.Session, now time.Time) *influxdb2_write.Point {
	st := status.Stats
	p := influx.NewSessionPoint(influx.MeasurementSessionStats, s, now).
		AddField("tick", st.Tick).
		AddField("simTimeMs", st.SimTime.Milliseconds()).
		AddField("agentsAlive", st.AgentsAlive).
		AddField("projectiles", st.Projectiles).
		AddField("score", st.Score).
		AddField("coins", st.Coins).
		AddField("kills", st.Kills).
		AddField("streak", st.Streak).
		AddField("maxCombo", st.MaxCombo).
		AddField("shots", st.Shots).
		AddField("vehicleHealth", st.VehicleHealth)
	if st.Rank != "" {
		p.AddTag("rank", st.Rank)
	}
	return p
}

func queuePoint(perf model.SessionPerformance, s *core.Session, now time.Time) *influxdb2_write.Point {
	q := perf.WriteQueueLengths
	return influx.NewSessionPoint(influx.MeasurementWriteQueues, s, now).
		AddField("fired", q.Fired).
		AddField("hits", q.Hits).
		AddField("kills", q.Kills).
		AddField("explosions", q.Explosion).
		AddField("attacks", q.Attacks).
		AddField("weapons", q.Weapons).
		AddField("purchases", q.Purchases).
		AddField("total", q.Total()).
		AddField("lastWriteDurationMs", perf.LastWriteDurationMs)
}
