package db

import "time"

// LeadEvent 记录每一次出站点击事件。
type LeadEvent struct {
	ID          uint      `gorm:"primaryKey"`
	EventID     string    `gorm:"size:36;uniqueIndex"`
	Name        string    `gorm:"size:32;index"`
	ContentName string    `gorm:"size:120;index"`
	PagePath    string    `gorm:"size:255"`
	VisitorID   string    `gorm:"size:64;index"`
	UserAgent   string    `gorm:"size:512"`
	ClientIP    string    `gorm:"size:64"`
	OccurredAt  time.Time `gorm:"index"`
	CreatedAt   time.Time
}

// TableName 指定自定义表名。
func (LeadEvent) TableName() string {
	return "lead_events"
}

// LeadStatistic 汇总 CTA 维度的点击数据。
type LeadStatistic struct {
	ID             uint   `gorm:"primaryKey"`
	ContentName    string `gorm:"size:120;uniqueIndex"`
	Events         uint64 `gorm:"default:0"`
	UniqueVisitors uint64 `gorm:"default:0"`
	LastEventAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名，避免自动复数化导致的歧义。
func (LeadStatistic) TableName() string {
	return "lead_statistics"
}

// LeadVisitor 记录访客与 CTA 的组合，用于 UV 去重。
type LeadVisitor struct {
	ID          uint   `gorm:"primaryKey"`
	ContentName string `gorm:"size:120;uniqueIndex:idx_lead_visitor"`
	VisitorID   string `gorm:"size:64;uniqueIndex:idx_lead_visitor"`
	LastEventAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定自定义表名。
func (LeadVisitor) TableName() string {
	return "lead_visitors"
}

// LeadHourlySnapshot 记录每小时的点击数与独立访客数。
type LeadHourlySnapshot struct {
	ID             uint      `gorm:"primaryKey"`
	Hour           time.Time `gorm:"uniqueIndex"`
	Events         uint64    `gorm:"default:0"`
	UniqueVisitors uint64    `gorm:"default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName 指定自定义表名。
func (LeadHourlySnapshot) TableName() string {
	return "lead_hourly_snapshots"
}

// LeadHourlyVisitor 记录每小时的访客，用于 UV 去重。
type LeadHourlyVisitor struct {
	ID        uint      `gorm:"primaryKey"`
	Hour      time.Time `gorm:"uniqueIndex:idx_lead_hour_visitor"`
	VisitorID string    `gorm:"size:64;uniqueIndex:idx_lead_hour_visitor"`
	CreatedAt time.Time
}

// TableName 指定自定义表名。
func (LeadHourlyVisitor) TableName() string {
	return "lead_hourly_visitors"
}

// Models 返回需要自动迁移的全部模型。
func Models() []any {
	return []any{
		&User{},
		&LeadEvent{},
		&LeadStatistic{},
		&LeadVisitor{},
		&LeadHourlySnapshot{},
		&LeadHourlyVisitor{},
	}
}
