package cache

import (
	"fmt"
	"time"
)

const (
	PostKeyPrefix  = "post:%d"
	GroupKeyPrefix = "group:%d"
)

const (
	PostTTL  = 30 * time.Minute
	GroupTTL = 10 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func GroupKey(groupID uint) string {
	return fmt.Sprintf(GroupKeyPrefix, groupID)
}
