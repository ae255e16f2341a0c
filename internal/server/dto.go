package server

import (
	"time"

	"yatube/internal/models"
)

// The DTOs below define the public wire shapes. Authors serialize as
// usernames and groups as their numeric key, independent of how the
// entities are stored or cached.

// PostDTO is the API representation of a post.
type PostDTO struct {
	ID      uint      `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
	Group   *uint     `json:"group"`
}

// CommentDTO is the API representation of a comment.
type CommentDTO struct {
	ID      uint      `json:"id"`
	Author  string    `json:"author"`
	Post    uint      `json:"post"`
	Text    string    `json:"text"`
	Created time.Time `json:"created"`
}

// GroupDTO is the API representation of a group.
type GroupDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// FollowDTO is the API representation of a follow relationship.
type FollowDTO struct {
	User      string `json:"user"`
	Following string `json:"following"`
}

func toPostDTO(p *models.Post) PostDTO {
	return PostDTO{
		ID:      p.ID,
		Author:  p.User.Username,
		Text:    p.Text,
		PubDate: p.PubDate,
		Group:   p.GroupID,
	}
}

func toPostDTOs(posts []*models.Post) []PostDTO {
	out := make([]PostDTO, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostDTO(p))
	}
	return out
}

func toCommentDTO(c *models.Comment) CommentDTO {
	return CommentDTO{
		ID:      c.ID,
		Author:  c.User.Username,
		Post:    c.PostID,
		Text:    c.Text,
		Created: c.Created,
	}
}

func toCommentDTOs(comments []*models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentDTO(c))
	}
	return out
}

func toGroupDTO(g *models.Group) GroupDTO {
	return GroupDTO{
		ID:          g.ID,
		Title:       g.Title,
		Slug:        g.Slug,
		Description: g.Description,
	}
}

func toGroupDTOs(groups []*models.Group) []GroupDTO {
	out := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupDTO(g))
	}
	return out
}

func toFollowDTO(f *models.Follow) FollowDTO {
	return FollowDTO{
		User:      f.User.Username,
		Following: f.Following.Username,
	}
}

func toFollowDTOs(follows []*models.Follow) []FollowDTO {
	out := make([]FollowDTO, 0, len(follows))
	for _, f := range follows {
		out = append(out, toFollowDTO(f))
	}
	return out
}
