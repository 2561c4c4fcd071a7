package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xtree/rbtree"
)

var (
	rotateLeftAttrs  = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotate.dir", "left")))
	rotateRightAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbtree.rotate.dir", "right")))
)

type rbTreeStats struct {
	size          metric.Int64UpDownCounter
	inserted      metric.Int64Counter
	duplicated    metric.Int64Counter
	erased        metric.Int64Counter
	rotations     metric.Int64Counter
	allocFailures metric.Int64Counter
}

func (stats *rbTreeStats) RecordInsert() {
	if stats == nil {
		return
	}
	stats.inserted.Add(context.Background(), 1)
	stats.size.Add(context.Background(), 1)
}

func (stats *rbTreeStats) RecordDuplicate() {
	if stats == nil {
		return
	}
	stats.duplicated.Add(context.Background(), 1)
}

func (stats *rbTreeStats) RecordErase() {
	if stats == nil {
		return
	}
	stats.erased.Add(context.Background(), 1)
	stats.size.Add(context.Background(), -1)
}

func (stats *rbTreeStats) RecordClear(released int64) {
	if stats == nil || released <= 0 {
		return
	}
	stats.erased.Add(context.Background(), released)
	stats.size.Add(context.Background(), -released)
}

func (stats *rbTreeStats) RecordRotation(isLeft bool) {
	if stats == nil {
		return
	}
	if isLeft {
		stats.rotations.Add(context.Background(), 1, rotateLeftAttrs)
		return
	}
	stats.rotations.Add(context.Background(), 1, rotateRightAttrs)
}

func (stats *rbTreeStats) RecordAllocFailure() {
	if stats == nil {
		return
	}
	stats.allocFailures.Add(context.Background(), 1)
}

func newRBTreeStats(name string) *rbTreeStats {
	if name == "" {
		name = "default"
	}
	meter := otel.Meter(fmt.Sprintf("%s/%s", RBTreeStatsName, name))
	return &rbTreeStats{
		size: lo.Must[metric.Int64UpDownCounter](meter.Int64UpDownCounter(
			"rbtree.size",
			metric.WithDescription("The number of elements in the red-black tree."),
		)),
		inserted: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.inserted",
			metric.WithDescription("The number of nodes attached to the red-black tree."),
		)),
		duplicated: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.duplicated",
			metric.WithDescription("The number of unique insertions rejected by an equivalent key."),
		)),
		erased: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.erased",
			metric.WithDescription("The number of nodes destroyed by erase or clear."),
		)),
		rotations: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.rotations",
			metric.WithDescription("The number of rotations done by the rebalancing."),
		)),
		allocFailures: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbtree.alloc.failures",
			metric.WithDescription("The number of failed node allocations."),
		)),
	}
}
