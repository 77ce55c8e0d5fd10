package handler

import (
	"linkup-go/internal/api/dto"
	"linkup-go/internal/api/middleware"
	"linkup-go/internal/api/response"
	"linkup-go/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService    *service.PostService
	commentService *service.CommentService
	viewService    *service.ViewService
	searchService  *service.SearchService
}

func NewPostHandler(
	postService *service.PostService,
	commentService *service.CommentService,
	viewService *service.ViewService,
	searchService *service.SearchService,
) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
		viewService:    viewService,
		searchService:  searchService,
	}
}

// Create 发帖
// @Summary 发帖
// @Description 发帖后作者当前的粉丝都会收到通知
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PostCreateRequest true "帖子内容"
// @Success 201 {object} response.Response{data=dto.PostInfo}
// @Router /posts [post]
func (h *PostHandler) Create(c *gin.Context) {
	var req dto.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	post, err := h.postService.CreatePost(c.Request.Context(), currentUser(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "发布成功", post)
}

// Get 帖子详情
// @Summary 帖子详情
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=dto.PostInfo}
// @Router /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}
	post, err := h.postService.GetPost(c.Request.Context(), currentUser(c), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", post)
}

// ListByAuthor 用户的帖子
// @Summary 用户的帖子
// @Tags 帖子
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response{data=dto.Page[dto.PostInfo]}
// @Router /users/{id}/posts [get]
func (h *PostHandler) ListByAuthor(c *gin.Context) {
	authorID, ok := parseIDParam(c)
	if !ok {
		return
	}
	q, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.postService.ListByAuthor(c.Request.Context(), currentUser(c), authorID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", page)
}

// Search 搜索帖子
// @Summary 搜索帖子
// @Tags 帖子
// @Produce json
// @Param q query string true "关键词"
// @Success 200 {object} response.Response{data=dto.Page[dto.PostInfo]}
// @Router /posts/search [get]
func (h *PostHandler) Search(c *gin.Context) {
	var query dto.PostSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	page, err := h.searchService.SearchPosts(c.Request.Context(), currentUser(c), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", page)
}

// RecordView 记录浏览
// @Summary 记录浏览
// @Description 登录用户按用户计，匿名请求需携带 X-Viewer-Token
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Param X-Viewer-Token header string false "匿名浏览令牌"
// @Success 200 {object} response.Response{data=dto.ViewResult}
// @Router /posts/{id}/views [post]
func (h *PostHandler) RecordView(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewerKey, ok := middleware.ViewerKey(c)
	if !ok {
		response.BadRequest(c, "缺少浏览身份")
		return
	}
	result, err := h.viewService.RecordView(c.Request.Context(), viewerKey, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "记录成功", result)
}

// CreateComment 发表评论
// @Summary 发表评论
// @Tags 评论
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Param request body dto.CommentCreateRequest true "评论内容"
// @Success 201 {object} response.Response{data=dto.CommentInfo}
// @Router /posts/{id}/comments [post]
func (h *PostHandler) CreateComment(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req dto.CommentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误: "+err.Error())
		return
	}
	comment, err := h.commentService.CreateComment(c.Request.Context(), currentUser(c), postID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "评论成功", comment)
}

// ListComments 帖子的评论
// @Summary 评论列表
// @Tags 评论
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=dto.Page[dto.CommentInfo]}
// @Router /posts/{id}/comments [get]
func (h *PostHandler) ListComments(c *gin.Context) {
	postID, ok := parseIDParam(c)
	if !ok {
		return
	}
	q, ok := bindPage(c)
	if !ok {
		return
	}
	page, err := h.commentService.ListByPost(c.Request.Context(), postID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "获取成功", page)
}
