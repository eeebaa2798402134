package snowflake

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

// init NODE_ID selects the worker node when several api replicas run.
func init() {
	id, err := strconv.ParseInt(os.Getenv("NODE_ID"), 10, 64)
	if err != nil || id < 0 || id > 1023 {
		id = 1
	}
	node, _ = snowflake.NewNode(id)
}

func GenID() int64 {
	return node.Generate().Int64()
}
