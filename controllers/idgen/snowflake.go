package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	nodeErr  error
)

// Init sets the node number used for generated ids. It only has an effect
// before the first id is generated.
func Init(nodeID int64) error {
	nodeOnce.Do(func() {
		node, nodeErr = snowflake.NewNode(nodeID)
	})
	if nodeErr != nil {
		return fmt.Errorf("init snowflake node: %w", nodeErr)
	}
	return nil
}

// GenerateID returns a time-ordered unique id, initialising node 1 lazily.
func GenerateID() int64 {
	if err := Init(1); err != nil {
		panic(err)
	}
	return node.Generate().Int64()
}
