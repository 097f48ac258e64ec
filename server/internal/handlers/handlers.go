package handlers

import (
	"errors"
	"faceboobs/server/internal/models"
	"faceboobs/server/internal/services"
	"faceboobs/shared/logger"
	"faceboobs/shared/types"
	"faceboobs/shared/utils"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// API bundles the services the HTTP layer fronts. Every handler resolves the
// caller's wallet from the X-Wallet-Address header; there is no session state.
type API struct {
	Users         *services.UserService
	Follows       *services.FollowService
	Posts         *services.PostService
	Likes         *services.LikeService
	Comments      *services.CommentService
	Purchases     *services.PurchaseService
	Stories       *services.StoryService
	Messages      *services.MessageService
	Notifications *services.NotificationService
	Media         *services.MediaService
	Chain         *services.EVMService
	Hub           *services.Hub
	Logger        *logger.Logger
}

type ConnectRequest struct {
	Address string `json:"address" binding:"required"`
}

type CreatePostRequest struct {
	MediaURL  string `json:"mediaUrl" binding:"required"`
	MediaType string `json:"mediaType"`
	Caption   string `json:"caption"`
	IsPaid    bool   `json:"isPaid"`
	Price     string `json:"price"`
}

type CreateStoryRequest struct {
	MediaURL  string `json:"mediaUrl" binding:"required"`
	MediaType string `json:"mediaType"`
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type SendMessageRequest struct {
	Receiver string `json:"receiver" binding:"required"`
	Text     string `json:"text" binding:"required"`
}

func RegisterRoutes(router *gin.Engine, appLogger *logger.Logger) {
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": GenerateWelcomeMessage()})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (api *API) RegisterAPIRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api/v1")
	{
		apiGroup.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API Service is running"})
		})

		apiGroup.POST("/users/connect", api.handleConnect)
		apiGroup.GET("/users/:address", api.handleGetUser)
		apiGroup.PUT("/users/me", api.handleUpdateProfile)
		apiGroup.POST("/users/me/creator", api.handleBecomeCreator)
		apiGroup.GET("/users/:address/posts", api.handleListCreatorPosts)
		apiGroup.POST("/users/:address/follow", api.handleFollow)
		apiGroup.DELETE("/users/:address/follow", api.handleUnfollow)
		apiGroup.GET("/users/:address/follow", api.handleIsFollowing)

		apiGroup.POST("/posts", api.handleCreatePost)
		apiGroup.GET("/posts/feed", api.handleFeed)
		apiGroup.GET("/posts/following", api.handleFollowingFeed)
		apiGroup.GET("/posts/:id", api.handleGetPost)
		apiGroup.DELETE("/posts/:id", api.handleDeletePost)
		apiGroup.POST("/posts/:id/like", api.handleToggleLike)
		apiGroup.GET("/posts/:id/likes", api.handleLikeStatus)
		apiGroup.POST("/posts/:id/comments", api.handleCreateComment)
		apiGroup.GET("/posts/:id/comments", api.handleListComments)
		apiGroup.POST("/posts/:id/purchase", api.handlePurchase)
		apiGroup.GET("/posts/:id/access", api.handleAccess)
		apiGroup.GET("/purchases", api.handleListPurchases)

		apiGroup.POST("/stories", api.handleCreateStory)
		apiGroup.GET("/stories", api.handleListStories)
		apiGroup.DELETE("/stories/:id", api.handleDeleteStory)

		apiGroup.POST("/messages", api.handleSendMessage)
		apiGroup.GET("/conversations", api.handleConversations)
		apiGroup.GET("/conversations/:address", api.handleConversationHistory)
		apiGroup.POST("/conversations/:address/read", api.handleMarkConversationRead)

		apiGroup.GET("/notifications", api.handleListNotifications)
		apiGroup.POST("/notifications/:id/read", api.handleMarkNotificationRead)
		apiGroup.POST("/notifications/read-all", api.handleMarkAllNotificationsRead)

		apiGroup.POST("/media", api.handleUploadMedia)
		apiGroup.GET("/media/:id", api.handleGetMedia)

		apiGroup.GET("/creator/earnings", api.handleCreatorEarnings)
		apiGroup.GET("/creator/registered", api.handleIsRegisteredCreator)
		apiGroup.POST("/creator/withdraw", api.handleWithdraw)

		apiGroup.GET("/ws", api.handleWebsocket)
	}
	api.Logger.Info("API routes registered under /api/v1")
}

// callerAddress resolves and validates the caller wallet header. It writes the
// error response itself; callers must return when ok is false.
func (api *API) callerAddress(c *gin.Context) (string, bool) {
	address := c.GetHeader("X-Wallet-Address")
	if !utils.IsValidAddress(address) {
		c.JSON(http.StatusUnauthorized, types.Fail("missing or invalid X-Wallet-Address header"))
		return "", false
	}
	return utils.NormalizeAddress(address), true
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("invalid "+name+" parameter"))
		return 0, false
	}
	return uint(parsed), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

// respondError maps service sentinels onto HTTP statuses and the uniform
// response envelope.
func (api *API) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrInvalidAddress),
		errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrNotPayable),
		errors.Is(err, services.ErrMediaTooLarge):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrSelfAction),
		errors.Is(err, services.ErrUsernameTaken):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNotOwner),
		errors.Is(err, services.ErrNotCreator):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, services.ErrTxReverted):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrSignerUnavailable),
		errors.Is(err, services.ErrWrongChain),
		errors.Is(err, services.ErrChainUnreachable):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		api.Logger.Error("Request failed", "path", c.FullPath(), "error", err.Error())
		c.JSON(status, types.Fail(GenerateErrorMessage()))
		return
	}
	c.JSON(status, types.Fail(err.Error()))
}

func (api *API) handleConnect(c *gin.Context) {
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid request body"))
		return
	}
	user, err := api.Users.Connect(c.Request.Context(), req.Address)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(user))
}

func (api *API) handleGetUser(c *gin.Context) {
	user, err := api.Users.Get(c.Request.Context(), c.Param("address"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(user))
}

func (api *API) handleUpdateProfile(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	var update services.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid request body"))
		return
	}
	user, err := api.Users.UpdateProfile(c.Request.Context(), caller, update)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(user))
}

func (api *API) handleBecomeCreator(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	user, err := api.Users.BecomeCreator(c.Request.Context(), caller)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(user))
}

func (api *API) handleFollow(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	action, err := api.Follows.Follow(c.Request.Context(), caller, c.Param("address"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"action": action}))
}

func (api *API) handleUnfollow(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	action, err := api.Follows.Unfollow(c.Request.Context(), caller, c.Param("address"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"action": action}))
}

func (api *API) handleIsFollowing(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	following, err := api.Follows.IsFollowing(c.Request.Context(), caller, c.Param("address"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"following": following}))
}

func (api *API) handleCreatePost(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid request body"))
		return
	}
	post, err := api.Posts.Create(c.Request.Context(), services.NewPostInput{
		CreatorAddress: caller,
		MediaURL:       req.MediaURL,
		MediaType:      req.MediaType,
		Caption:        req.Caption,
		IsPaid:         req.IsPaid,
		Price:          req.Price,
	})
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.OK(post))
}

func (api *API) handleFeed(c *gin.Context) {
	posts, err := api.Posts.Feed(c.Request.Context(), queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(api.redactForViewer(c, posts)))
}

func (api *API) handleFollowingFeed(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	posts, err := api.Posts.FollowingFeed(c.Request.Context(), caller, queryInt(c, "limit", 0), queryInt(c, "offset", 0))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(api.redactForViewer(c, posts)))
}

func (api *API) handleListCreatorPosts(c *gin.Context) {
	posts, err := api.Posts.ListByCreator(c.Request.Context(), c.Param("address"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(api.redactForViewer(c, posts)))
}

func (api *API) handleGetPost(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	post, err := api.Posts.Get(c.Request.Context(), postID)
	if err != nil {
		api.respondError(c, err)
		return
	}
	viewer := utils.NormalizeAddress(c.GetHeader("X-Wallet-Address"))
	hasAccess := false
	if viewer != "" {
		hasAccess, err = api.Purchases.HasAccess(c.Request.Context(), viewer, postID)
		if err != nil {
			api.respondError(c, err)
			return
		}
	} else if !post.IsPaid {
		hasAccess = true
	}
	c.JSON(http.StatusOK, types.OK(services.RedactLocked(post, hasAccess)))
}

func (api *API) handleDeletePost(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := api.Posts.Delete(c.Request.Context(), postID, caller); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"deleted": postID}))
}

func (api *API) handleToggleLike(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	action, err := api.Likes.Toggle(c.Request.Context(), postID, caller)
	if err != nil {
		api.respondError(c, err)
		return
	}
	count, err := api.Likes.Count(c.Request.Context(), postID)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"action": action, "count": count}))
}

func (api *API) handleLikeStatus(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	count, err := api.Likes.Count(c.Request.Context(), postID)
	if err != nil {
		api.respondError(c, err)
		return
	}
	liked := false
	if viewer := utils.NormalizeAddress(c.GetHeader("X-Wallet-Address")); viewer != "" {
		liked, err = api.Likes.HasLiked(c.Request.Context(), postID, viewer)
		if err != nil {
			api.respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"count": count, "liked": liked}))
}

func (api *API) handleCreateComment(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid request body"))
		return
	}
	comment, err := api.Comments.Create(c.Request.Context(), postID, caller, req.Text)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.OK(comment))
}

func (api *API) handleListComments(c *gin.Context) {
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	comments, err := api.Comments.List(c.Request.Context(), postID)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(comments))
}

func (api *API) handlePurchase(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	result, err := api.Purchases.Purchase(c.Request.Context(), caller, postID)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(result))
}

func (api *API) handleAccess(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	postID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	hasAccess, err := api.Purchases.HasAccess(c.Request.Context(), caller, postID)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"hasAccess": hasAccess}))
}

func (api *API) handleListPurchases(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	purchases, err := api.Purchases.ListByBuyer(c.Request.Context(), caller)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(purchases))
}

func (api *API) handleCreateStory(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	var req CreateStoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid request body"))
		return
	}
	story, err := api.Stories.Create(c.Request.Context(), caller, req.MediaURL, req.MediaType)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.OK(story))
}

func (api *API) handleListStories(c *gin.Context) {
	stories, err := api.Stories.ListActive(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(stories))
}

func (api *API) handleDeleteStory(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	storyID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := api.Stories.Delete(c.Request.Context(), storyID, caller); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"deleted": storyID}))
}

func (api *API) handleSendMessage(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("Invalid request body"))
		return
	}
	message, err := api.Messages.Send(c.Request.Context(), caller, req.Receiver, req.Text)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.OK(message))
}

func (api *API) handleConversations(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	conversations, err := api.Messages.Conversations(c.Request.Context(), caller)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(conversations))
}

func (api *API) handleConversationHistory(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	history, err := api.Messages.History(c.Request.Context(), caller, c.Param("address"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(history))
}

func (api *API) handleMarkConversationRead(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	if err := api.Messages.MarkRead(c.Request.Context(), caller, c.Param("address")); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"read": true}))
}

func (api *API) handleListNotifications(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	notifications, err := api.Notifications.List(c.Request.Context(), caller, queryInt(c, "limit", 0))
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(notifications))
}

func (api *API) handleMarkNotificationRead(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	notificationID, ok := paramUint(c, "id")
	if !ok {
		return
	}
	if err := api.Notifications.MarkRead(c.Request.Context(), notificationID, caller); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"read": true}))
}

func (api *API) handleMarkAllNotificationsRead(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	if err := api.Notifications.MarkAllRead(c.Request.Context(), caller); err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"read": true}))
}

func (api *API) handleUploadMedia(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.Fail("missing file field"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		api.respondError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		api.respondError(c, err)
		return
	}
	blob, err := api.Media.Put(c.Request.Context(), caller, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, types.OK(gin.H{"id": blob.ID, "sizeBytes": blob.SizeBytes}))
}

func (api *API) handleGetMedia(c *gin.Context) {
	blob, data, err := api.Media.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		api.respondError(c, err)
		return
	}
	mimeType := blob.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.Data(http.StatusOK, mimeType, data)
}

func (api *API) handleCreatorEarnings(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	if api.Chain == nil {
		api.respondError(c, services.ErrChainUnreachable)
		return
	}
	earnings, err := api.Chain.CreatorEarnings(c.Request.Context(), caller)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"earningsWei": earnings.String()}))
}

func (api *API) handleIsRegisteredCreator(c *gin.Context) {
	caller, ok := api.callerAddress(c)
	if !ok {
		return
	}
	if api.Chain == nil {
		api.respondError(c, services.ErrChainUnreachable)
		return
	}
	registered, err := api.Chain.IsRegisteredCreator(c.Request.Context(), caller)
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"registered": registered}))
}

func (api *API) handleWithdraw(c *gin.Context) {
	if _, ok := api.callerAddress(c); !ok {
		return
	}
	if api.Chain == nil {
		api.respondError(c, services.ErrChainUnreachable)
		return
	}
	txHash, err := api.Chain.Withdraw(c.Request.Context())
	if err != nil {
		api.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.OK(gin.H{"transactionHash": txHash}))
}

// redactForViewer blanks locked media URLs in a post list for the (possibly
// anonymous) caller. Access errors degrade to locked rather than failing the
// whole feed.
func (api *API) redactForViewer(c *gin.Context, posts []models.Post) []models.Post {
	viewer := utils.NormalizeAddress(c.GetHeader("X-Wallet-Address"))
	out := make([]models.Post, 0, len(posts))
	for i := range posts {
		post := posts[i]
		hasAccess := !post.IsPaid
		if post.IsPaid && viewer != "" {
			granted, err := api.Purchases.HasAccess(c.Request.Context(), viewer, post.ID)
			if err == nil {
				hasAccess = granted
			}
		}
		out = append(out, *services.RedactLocked(&post, hasAccess))
	}
	return out
}
