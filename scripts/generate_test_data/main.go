package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/projyotish/internal/config"
	"github.com/projyotish/internal/db"
	"github.com/projyotish/internal/outbound"
	"github.com/projyotish/internal/service"
)

var sampleCTAs = []struct {
	name string
	path string
}{
	{"Hero WhatsApp CTA", "/"},
	{"Final CTA", "/"},
	{"Floating WhatsApp CTA", "/"},
	{"Pricing Monthly CTA", "/pricing/"},
	{"Marriage Timing CTA", "/love/"},
	{"Career Hero CTA", "/career/"},
}

// 测试数据生成器：为后台面板写入最近 24 小时的模拟点击。
func main() {
	count := flag.Int("events", 200, "number of events to generate")
	visitors := flag.Int("visitors", 60, "number of distinct visitors")
	flag.Parse()

	// 初始化数据库
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("failed to initialize database: ", err)
	}
	defer db.Close()

	leads := service.NewLeadService(db.DB)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	pool := make([]string, *visitors)
	for i := range pool {
		pool[i] = uuid.NewString()
	}

	now := time.Now()
	for i := 0; i < *count; i++ {
		cta := sampleCTAs[rng.Intn(len(sampleCTAs))]
		name := outbound.EventLead
		if rng.Intn(10) == 0 {
			name = outbound.EventContact
		}
		event := outbound.NewEvent(name, outbound.Payload{ContentName: cta.name}, outbound.Meta{
			PagePath:  cta.path,
			VisitorID: pool[rng.Intn(len(pool))],
			UserAgent: "projyotish-test-data",
		}, now.Add(-time.Duration(rng.Intn(24*60))*time.Minute))

		if err := leads.Collect(context.Background(), event); err != nil {
			log.Fatal("failed to record event: ", err)
		}
	}

	fmt.Printf("generated %d events from %d visitors\n", *count, *visitors)
}
