package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/projyotish/internal/db"
	"github.com/projyotish/internal/outbound"
)

// UnnamedCTA 用于没有 content_name 的事件。
const UnnamedCTA = "unnamed"

// ErrInvalidEvent 表示事件缺少必要字段。
var ErrInvalidEvent = errors.New("invalid lead event")

// LeadService 负责记录出站点击并汇总 CTA 维度的统计。
type LeadService struct {
	db *gorm.DB
}

// NewLeadService 创建 LeadService。
func NewLeadService(gdb *gorm.DB) *LeadService {
	return &LeadService{db: gdb}
}

// Collect 以事务方式记录一次事件，实现 outbound.Collector。
// 重复投递的同一事件 ID 只记录一次。
func (s *LeadService) Collect(ctx context.Context, event outbound.Event) error {
	if strings.TrimSpace(event.ID) == "" || event.Name == "" {
		return ErrInvalidEvent
	}

	contentName := strings.TrimSpace(event.ContentName)
	if contentName == "" {
		contentName = UnnamedCTA
	}
	at := event.OccurredAt.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}
	hour := at.Truncate(time.Hour)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := db.LeadEvent{
			EventID:     event.ID,
			Name:        string(event.Name),
			ContentName: contentName,
			PagePath:    event.PagePath,
			VisitorID:   event.VisitorID,
			UserAgent:   truncate(event.UserAgent, 512),
			ClientIP:    event.ClientIP,
			OccurredAt:  at,
		}
		insert := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).Create(&record)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			return nil
		}

		var newVisitor, newHourlyVisitor uint64
		if event.VisitorID != "" {
			visitor := db.LeadVisitor{ContentName: contentName, VisitorID: event.VisitorID, LastEventAt: at}
			insertVisitor := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "content_name"}, {Name: "visitor_id"}},
				DoNothing: true,
			}).Create(&visitor)
			if insertVisitor.Error != nil {
				return insertVisitor.Error
			}
			if insertVisitor.RowsAffected == 1 {
				newVisitor = 1
			} else if err := tx.Model(&db.LeadVisitor{}).
				Where("content_name = ? AND visitor_id = ?", contentName, event.VisitorID).
				Update("last_event_at", at).Error; err != nil {
				return err
			}

			hourly := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "hour"}, {Name: "visitor_id"}},
				DoNothing: true,
			}).Create(&db.LeadHourlyVisitor{Hour: hour, VisitorID: event.VisitorID})
			if hourly.Error != nil {
				return hourly.Error
			}
			newHourlyVisitor = uint64(hourly.RowsAffected)
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "content_name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"events":          gorm.Expr("lead_statistics.events + 1"),
				"unique_visitors": gorm.Expr("lead_statistics.unique_visitors + ?", newVisitor),
				"last_event_at":   at,
				"updated_at":      at,
			}),
		}).Create(&db.LeadStatistic{
			ContentName:    contentName,
			Events:         1,
			UniqueVisitors: newVisitor,
			LastEventAt:    at,
		}).Error; err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "hour"}},
			DoUpdates: clause.Assignments(map[string]any{
				"events":          gorm.Expr("lead_hourly_snapshots.events + 1"),
				"unique_visitors": gorm.Expr("lead_hourly_snapshots.unique_visitors + ?", newHourlyVisitor),
				"updated_at":      at,
			}),
		}).Create(&db.LeadHourlySnapshot{
			Hour:           hour,
			Events:         1,
			UniqueVisitors: newHourlyVisitor,
		}).Error
	})
}

// LeadOverview 聚合全站点击数据及热门 CTA。
type LeadOverview struct {
	TotalEvents    uint64
	UniqueVisitors uint64
	CTACount       int64
	TopCTAs        []TopCTAStat
	ByEvent        []EventCount
}

// TopCTAStat 描述热门 CTA 的统计信息。
type TopCTAStat struct {
	ContentName    string
	Events         uint64
	UniqueVisitors uint64
	LastEventAt    time.Time
}

// EventCount is the number of events recorded per event name.
type EventCount struct {
	Name  string
	Count uint64
}

// Overview 汇总点击总量、独立访客与热门 CTA。
func (s *LeadService) Overview(limit int) (LeadOverview, error) {
	if limit <= 0 {
		limit = 5
	}

	var overview LeadOverview

	var totals struct {
		Events uint64
	}
	if err := s.db.Model(&db.LeadStatistic{}).
		Select("COALESCE(SUM(events), 0) AS events").
		Scan(&totals).Error; err != nil {
		return overview, err
	}
	overview.TotalEvents = totals.Events

	var uniqueVisitors int64
	if err := s.db.Model(&db.LeadEvent{}).
		Where("visitor_id <> ''").
		Distinct("visitor_id").
		Count(&uniqueVisitors).Error; err != nil {
		return overview, err
	}
	overview.UniqueVisitors = uint64(uniqueVisitors)

	if err := s.db.Model(&db.LeadStatistic{}).Count(&overview.CTACount).Error; err != nil {
		return overview, err
	}

	var stats []db.LeadStatistic
	if err := s.db.Order("events DESC").Order("content_name ASC").Limit(limit).Find(&stats).Error; err != nil {
		return overview, err
	}
	overview.TopCTAs = make([]TopCTAStat, 0, len(stats))
	for _, stat := range stats {
		overview.TopCTAs = append(overview.TopCTAs, TopCTAStat{
			ContentName:    stat.ContentName,
			Events:         stat.Events,
			UniqueVisitors: stat.UniqueVisitors,
			LastEventAt:    stat.LastEventAt,
		})
	}

	if err := s.db.Model(&db.LeadEvent{}).
		Select("name, COUNT(*) AS count").
		Group("name").
		Order("count DESC").
		Scan(&overview.ByEvent).Error; err != nil {
		return overview, err
	}

	return overview, nil
}

// HourlyLeadPoint 是每小时的点击数据点。
type HourlyLeadPoint struct {
	Hour           time.Time
	Events         uint64
	UniqueVisitors uint64
}

// HourlyTrend 返回截至 now 所在小时的最近 hours 个小时数据，缺失的小时补零，按时间升序。
func (s *LeadService) HourlyTrend(now time.Time, hours int) ([]HourlyLeadPoint, error) {
	if hours <= 0 {
		hours = 24
	}
	end := now.UTC().Truncate(time.Hour)
	start := end.Add(-time.Duration(hours-1) * time.Hour)

	var snapshots []db.LeadHourlySnapshot
	if err := s.db.Where("hour >= ? AND hour <= ?", start, end).Find(&snapshots).Error; err != nil {
		return nil, err
	}

	byHour := make(map[int64]db.LeadHourlySnapshot, len(snapshots))
	for _, snap := range snapshots {
		byHour[snap.Hour.UTC().Unix()] = snap
	}

	points := make([]HourlyLeadPoint, 0, hours)
	for i := 0; i < hours; i++ {
		hour := start.Add(time.Duration(i) * time.Hour)
		point := HourlyLeadPoint{Hour: hour}
		if snap, ok := byHour[hour.Unix()]; ok {
			point.Events = snap.Events
			point.UniqueVisitors = snap.UniqueVisitors
		}
		points = append(points, point)
	}
	return points, nil
}

// RecentEvents 返回最近的事件，最新的在前。
func (s *LeadService) RecentEvents(limit int) ([]db.LeadEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	var events []db.LeadEvent
	if err := s.db.Order("occurred_at DESC").Order("id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	return strings.ToValidUTF8(value[:max], "")
}
