package contracts

const (
	PostsTopicV1 = "posts.v1"
)
