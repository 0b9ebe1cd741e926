package idgen

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

func initNode() {
	var err error
	node, err = snowflake.NewNode(int64(time.Now().UnixNano() % 1024))
	if err != nil {
		panic(err)
	}
}

// NextID returns a time-ordered unique int64 id.
func NextID() int64 {
	once.Do(initNode)
	return node.Generate().Int64()
}

// OrderID returns a storefront order id, time prefixed for readability with
// a snowflake suffix guaranteeing process-wide uniqueness even under rapid
// successive creation.
func OrderID() string {
	once.Do(initNode)
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), node.Generate().String())
}

// ItemID returns an order item id, unique within the process.
func ItemID() string {
	once.Do(initNode)
	return fmt.Sprintf("IT-%d-%s", time.Now().UnixMilli(), node.Generate().String())
}

// NotificationID returns a timestamp-based notification id.
func NotificationID() string {
	once.Do(initNode)
	return fmt.Sprintf("NT-%s", node.Generate().String())
}
