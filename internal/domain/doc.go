// Package domain contains the aggregation-and-clustering engine for seismic
// event feeds.
//
// # Data Source
//
// Events originate from USGS-style GeoJSON earthquake feeds
// (https://earthquake.usgs.gov/earthquakes/feed/v1.0/geojson.php). The
// upstream collector service polls a feed per refresh horizon, attaches the
// fetch timestamp and horizon, and publishes the raw payload to the Kafka
// source topic. This service never talks to the USGS API directly.
//
// # Feed Conventions
//
// Each GeoJSON feature carries:
//
//	id          feed-unique event identifier, e.g. "us7000abcd"
//	time        origin time in epoch milliseconds
//	mag         moment magnitude; may be null for unreviewed events
//	place       human-readable location, e.g. "32 km SSE of Adak, Alaska"
//	alert       PAGER alert level: "green", "yellow", "orange", "red", or null
//	tsunami     1 when the event appears in a tsunami product, else 0
//	coordinates [longitude, latitude, depthKm]; individual values may be null
//
// ParseFeed converts features into strict [Event] values once, at the
// ingestion boundary, so the algorithms below never guard field shapes.
// Features without an id or origin time are dropped. Features with malformed
// coordinate arrays keep their event but carry a nil Geo; such events count
// toward time windows and histograms but are excluded from clustering.
//
// # Derived Views
//
// Each refresh produces a new [DerivedState] from the previous one via a pure
// reducer ([Reducer.Reduce]): rolling time windows, deduplicated event sets,
// magnitude histograms, per-day counts, priority-preserved render samples,
// the highest active PAGER alert, tsunami warnings, and the two most recent
// "notable" (magnitude >= [MajorMagnitude]) events ever observed. Notable
// pointers survive the raw feed's bounded retrieval window: once seen, a
// notable event is only displaced by a more recent one, never lost.
//
// # Clustering
//
// [FindClusters] groups co-located events greedily around high-magnitude
// seeds. Membership is a star relation to the seed, not a
// connected-components relation; see the function doc for the exact policy.
package domain
