package article

// ArticleRequest is the editor payload for create and update
type ArticleRequest struct {
	Title      string `json:"title" binding:"required,max=200"`
	Content    string `json:"content" binding:"required"`
	Excerpt    string `json:"excerpt" binding:"max=500"`
	CoverImage string `json:"cover_image" binding:"omitempty,url,max=2048"`
	Publish    bool   `json:"publish"`
}

// ListQuery is the pagination of the public article list
type ListQuery struct {
	Offset int `form:"offset" binding:"min=0"`
	Limit  int `form:"limit" binding:"omitempty,min=1,max=50"`
}
