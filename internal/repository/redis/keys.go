package redis

import "fmt"

const ns = "queuego:v1"

func KeyStoreDetails(storeID int64) string {
	return fmt.Sprintf("%s:store:%d:details", ns, storeID)
}

func KeyStoreServices(storeID int64) string {
	return fmt.Sprintf("%s:store:%d:services", ns, storeID)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelQueueChanged() string {
	return ns + ":queues:changed"
}
