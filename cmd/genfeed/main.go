// Command genfeed generates a deterministic synthetic USGS-style GeoJSON
// feed fixture and runs it through the actual derivation code so the printed
// stats match real pipeline behavior.
//
// Usage:
//
//	go run ./cmd/genfeed \
//	  -out data/mock/feed_260315.json \
//	  -events 500 -span-hours 720 -seed 42
//
// With -brokers the fixture is also published as a refresh message to the
// raw feed topic, one message per horizon:
//
//	go run ./cmd/genfeed -out /dev/null -brokers localhost:9092 -topic raw-quake-feeds
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/quake-derived-views/internal/domain"
)

// referenceTime anchors all generated event times so fixtures are stable
// across runs.
var referenceTime = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

// region is a seismically plausible epicenter neighborhood. Events scatter
// around the center within jitterDeg degrees.
type region struct {
	name      string
	lat, lon  float64
	jitterDeg float64
}

var regions = []region{
	{name: "Kermadec Islands", lat: -29.5, lon: -177.9, jitterDeg: 1.5},
	{name: "Southern Alaska", lat: 61.2, lon: -150.0, jitterDeg: 2.0},
	{name: "Central California", lat: 36.5, lon: -121.0, jitterDeg: 0.8},
	{name: "Honshu, Japan", lat: 38.3, lon: 142.4, jitterDeg: 1.2},
	{name: "Puerto Rico region", lat: 17.9, lon: -66.9, jitterDeg: 0.5},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the feed fixture")
	events := flag.Int("events", 500, "number of events to generate")
	spanHours := flag.Float64("span-hours", 720, "how far back event times reach")
	seed := flag.Uint64("seed", 42, "PRNG seed")
	brokers := flag.String("brokers", "", "optional comma-separated Kafka brokers to seed")
	topic := flag.String("topic", "raw-quake-feeds", "raw feed topic when seeding Kafka")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	rng := rand.New(rand.NewSource(int64(*seed)))

	// Fix the clock so window membership in the stats below is reproducible.
	domain.SetClock(clockwork.NewFakeClockAt(referenceTime))
	defer domain.SetClock(nil)

	feed := generateFeed(rng, *events, *spanHours)

	data, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed: %w", err)
	}
	data = append(data, '\n')
	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o600); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote feed fixture: %s (%d features)", *out, len(feed.Features))

	if *brokers != "" {
		if err := seedTopic(*brokers, *topic, data); err != nil {
			return fmt.Errorf("seeding topic: %w", err)
		}
	}

	printStats(data)
	return nil
}

// seedTopic publishes the fixture as one refresh message per horizon so a
// locally running service derives all three views from it.
func seedTopic(brokers, topic string, payload []byte) error {
	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(strings.Split(brokers, ",")...),
		Topic:    topic,
		Balancer: &kafkago.LeastBytes{},
	}
	defer writer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, h := range []string{"short", "medium", "long"} {
		msg := kafkago.Message{
			Key:     []byte(h),
			Value:   payload,
			Time:    referenceTime,
			Headers: []kafkago.Header{{Key: "horizon", Value: []byte(h)}},
		}
		if err := writer.WriteMessages(ctx, msg); err != nil {
			return fmt.Errorf("publish %s refresh: %w", h, err)
		}
		log.Printf("seeded %s refresh to %s", h, topic)
	}
	return nil
}

// geoFeed is the generated wire shape. Property fields are pointers so the
// fixture can carry the explicit nulls the live feed emits.
type geoFeed struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Type       string   `json:"type"`
	ID         string   `json:"id"`
	Properties geoProps `json:"properties"`
	Geometry   geoGeom  `json:"geometry"`
}

type geoProps struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Time    *int64   `json:"time"`
	Alert   *string  `json:"alert"`
	Tsunami int      `json:"tsunami"`
}

type geoGeom struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

func generateFeed(rng *rand.Rand, count int, spanHours float64) geoFeed {
	feed := geoFeed{Type: "FeatureCollection", Features: make([]geoFeature, 0, count)}

	for i := 0; i < count; i++ {
		r := regions[rng.Intn(len(regions))]
		lat := r.lat + (rng.Float64()*2-1)*r.jitterDeg
		lon := r.lon + (rng.Float64()*2-1)*r.jitterDeg
		depth := rng.Float64() * 70

		ageHours := rng.Float64() * spanHours
		eventTime := referenceTime.Add(-time.Duration(ageHours * float64(time.Hour)))
		ms := eventTime.UnixMilli()

		f := geoFeature{
			Type: "Feature",
			ID:   fmt.Sprintf("synth%08d", i),
			Properties: geoProps{
				Place: strPtr(fmt.Sprintf("%.0f km from %s", rng.Float64()*120, r.name)),
				Time:  &ms,
			},
			Geometry: geoGeom{Type: "Point", Coordinates: []float64{lon, lat, depth}},
		}

		// Roughly Gutenberg-Richter shaped: mostly small quakes, a thin tail
		// of large ones. One in 25 events has a null magnitude, mirroring
		// unreviewed feed entries.
		if rng.Intn(25) != 0 {
			mag := rng.Float64()*rng.Float64()*8 - 0.5
			f.Properties.Mag = &mag
			f.Properties.Alert = alertFor(rng, mag)
			if mag >= 6.5 && depth < 30 && rng.Intn(3) == 0 {
				f.Properties.Tsunami = 1
			}
		}

		feed.Features = append(feed.Features, f)
	}
	return feed
}

// alertFor assigns a PAGER-style alert level, biased so elevated levels only
// show up on the larger quakes.
func alertFor(rng *rand.Rand, mag float64) *string {
	switch {
	case mag >= 7 && rng.Intn(2) == 0:
		return strPtr("red")
	case mag >= 6 && rng.Intn(3) == 0:
		return strPtr("orange")
	case mag >= 5 && rng.Intn(3) == 0:
		return strPtr("yellow")
	case mag >= 2.5:
		return strPtr("green")
	}
	return nil
}

func strPtr(s string) *string { return &s }

// printStats parses the fixture back through the real feed parser and folds
// it through every horizon reducer, then prints the numbers test assertions
// care about.
func printStats(data []byte) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	events, err := domain.ParseFeed(data, logger)
	if err != nil {
		log.Printf("stats: parse failed: %v", err)
		return
	}

	reducer := domain.NewReducer(domain.MajorMagnitude, logger)
	state := domain.DerivedState{}
	for _, h := range []domain.Horizon{domain.HorizonShort, domain.HorizonMedium, domain.HorizonLong} {
		state = reducer.Reduce(h, state, events, referenceTime)
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Parsed events: %d\n", len(events))
	fmt.Printf("Windows: 1h=%d, 24h=%d, 7d=%d, 14d=%d, 30d=%d\n",
		len(state.Short.Events1h), len(state.Short.Events24h),
		len(state.Medium.Events7d), len(state.Long.Events14d), len(state.Long.Events30d))

	fmt.Print("Histogram (30d): ")
	for _, rc := range state.Long.Histogram {
		fmt.Printf("%s=%d ", rc.Name, rc.Count)
	}
	fmt.Println()

	fmt.Printf("Alert (24h): level=%q, triggering=%d\n",
		state.Short.Alert.Level, len(state.Short.Alert.TriggeringEvents))
	fmt.Printf("Tsunami (24h): warning=%t\n", state.Short.Tsunami.Warning)

	if state.Notable.Last != nil {
		fmt.Printf("Notable: last=%s", state.Notable.Last.ID)
		if state.Notable.Previous != nil {
			fmt.Printf(", previous=%s", state.Notable.Previous.ID)
		}
		if state.Notable.DeltaMillis != nil {
			fmt.Printf(", delta_ms=%d", *state.Notable.DeltaMillis)
		}
		fmt.Println()
	}

	clusters := domain.FindClusters(state.Medium.Events7d, 100, 2, logger)
	fmt.Printf("Clusters (7d, 100 km, min 2): %d\n", len(clusters))
	for i, c := range clusters {
		if i >= 5 {
			fmt.Printf("  ... %d more\n", len(clusters)-5)
			break
		}
		fmt.Printf("  seed=%s mag=%.1f size=%d\n", c.Seed.ID, c.Seed.Mag(), c.Size())
	}
}
