// Package command defines the stripemap-bench CLI.
package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mstitov/stripemap/pkg/cmap"
)

// ShardsCommand shows how a key range distributes across shards.
func ShardsCommand() *cli.Command {
	return &cli.Command{
		Name:  "shards",
		Usage: "show how a key range distributes across shards",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "shards",
				Usage: "shard count",
				Value: 16,
			},
			&cli.IntFlag{
				Name:  "from",
				Usage: "first key of the range (inclusive)",
				Value: 0,
			},
			&cli.IntFlag{
				Name:  "to",
				Usage: "last key of the range (exclusive)",
				Value: 10000,
			},
		},
		Action: shardsAction,
	}
}

func shardsAction(c *cli.Context) error {
	shards := c.Int("shards")
	from, to := c.Int("from"), c.Int("to")

	// Bad CLI input is a user error, not a programmer error, so check
	// it here instead of letting the constructor panic.
	if shards < 1 {
		return fmt.Errorf("shards must be at least 1, got %d", shards)
	}
	if to <= from {
		return fmt.Errorf("empty key range [%d, %d)", from, to)
	}

	m := cmap.New[int, struct{}](shards)
	counts := make([]int, shards)
	for key := from; key < to; key++ {
		counts[m.ShardIndex(key)]++
	}

	total := to - from
	fmt.Fprintf(c.App.Writer, "%d keys in [%d, %d) over %d shards:\n", total, from, to, shards)
	minCount, maxCount := total, 0
	for i, count := range counts {
		fmt.Fprintf(c.App.Writer, "  shard %3d: %d keys\n", i, count)
		if count < minCount {
			minCount = count
		}
		if count > maxCount {
			maxCount = count
		}
	}
	fmt.Fprintf(c.App.Writer, "min %d, max %d per shard\n", minCount, maxCount)
	return nil
}
