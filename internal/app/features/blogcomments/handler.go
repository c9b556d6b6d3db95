// Package blogcomments serves reader comments on blog posts.
//
// Visitors post comments without signing in; a comment stays hidden until
// an admin approves it. Public reads return only approved comments, two
// levels deep.
package blogcomments

import (
	"errors"
	"net/http"

	blogstore "github.com/dalemusser/stratacms/internal/app/store/blogs"
	commentstore "github.com/dalemusser/stratacms/internal/app/store/blogcomments"
	"github.com/dalemusser/stratacms/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/listquery"
	"github.com/dalemusser/stratacms/internal/app/system/normalize"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgNotFound       = "Comment not found"
	msgBlogNotFound   = "Blog not found"
	msgParentNotFound = "Parent comment not found"
	msgRequired       = "Blog ID, name, email, and comment are required"
)

// Notifier hears about comments waiting for moderation. Implementations
// must not block.
type Notifier interface {
	CommentPending(c models.BlogComment)
}

// Handler handles blog comment requests.
type Handler struct {
	comments *commentstore.Store
	blogs    *blogstore.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewHandler creates a new blog comment handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		comments: commentstore.New(db),
		blogs:    blogstore.New(db),
		logger:   logger,
	}
}

// SetNotifier registers n to be told about every new comment.
func (h *Handler) SetNotifier(n Notifier) {
	h.notifier = n
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	jsonutil.Error(w, r, h.logger, op, err)
}

// ForBlog handles GET /blog-comments/blog/{blogId}.
func (h *Handler) ForBlog(w http.ResponseWriter, r *http.Request) {
	blogID, err := listquery.ID(r, "blogId")
	if err != nil {
		jsonutil.NotFound(w, r, msgBlogNotFound)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogcomments.forblog")
	defer cancel()

	threads, err := h.comments.Thread(ctx, blogID)
	if err != nil {
		h.fail(w, r, "list blog comments", err)
		return
	}
	jsonutil.OK(w, "Comments retrieved successfully", map[string]any{"comments": threads})
}

// List handles GET /blog-comments, the moderation queue.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := commentstore.AdminFilter{
		IsApproved: listquery.Bool(r, "isApproved"),
		Page:       listquery.Page(r, commentstore.DefaultAdminLimit),
	}
	if id := listquery.OptionalID(r, "blogId"); !id.IsZero() {
		f.BlogID = &id
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.logger, "blogcomments.list")
	defer cancel()

	items, pg, err := h.comments.AdminList(ctx, f)
	if err != nil {
		h.fail(w, r, "list comments", err)
		return
	}
	jsonutil.OK(w, "Comments retrieved successfully", map[string]any{
		"comments":   items,
		"pagination": pg,
	})
}

type commentInput struct {
	BlogID   string `json:"blogId" validate:"required,objectid" label:"Blog ID"`
	ParentID string `json:"parentId" validate:"objectid" label:"Parent comment"`
	Name     string `json:"name" validate:"required,max=100" label:"Name"`
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Comment  string `json:"comment" validate:"required,max=5000" label:"Comment"`
}

// Create handles POST /blog-comments. The comment is stored unapproved.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in commentInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode comment", err)
		return
	}
	in.Name = htmlsanitize.PlainText(in.Name)
	in.Comment = htmlsanitize.PlainText(in.Comment)
	in.Email = normalize.Email(in.Email)
	if in.BlogID == "" || in.Name == "" || in.Email == "" || in.Comment == "" {
		jsonutil.BadRequest(w, r, msgRequired)
		return
	}
	if err := inputval.Check(in); err != nil {
		jsonutil.Error(w, r, h.logger, "validate comment", err)
		return
	}
	blogID, _ := primitive.ObjectIDFromHex(in.BlogID)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogcomments.create")
	defer cancel()

	ok, err := h.blogs.Exists(ctx, blogID)
	if err != nil {
		h.fail(w, r, "check blog", err)
		return
	}
	if !ok {
		jsonutil.NotFound(w, r, msgBlogNotFound)
		return
	}

	var parentID *primitive.ObjectID
	if in.ParentID != "" {
		pid, _ := primitive.ObjectIDFromHex(in.ParentID)
		parent, err := h.comments.GetByID(ctx, pid)
		if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && parent.BlogID != blogID) {
			jsonutil.NotFound(w, r, msgParentNotFound)
			return
		}
		if err != nil {
			h.fail(w, r, "get parent comment", err)
			return
		}
		parentID = &pid
	}

	bc, err := h.comments.Create(ctx, commentstore.CreateInput{
		BlogID:   blogID,
		ParentID: parentID,
		Name:     in.Name,
		Email:    in.Email,
		Comment:  in.Comment,
	})
	if err != nil {
		h.fail(w, r, "create comment", err)
		return
	}
	h.logger.Info("comment submitted",
		zap.String("id", bc.ID.Hex()),
		zap.String("blog_id", in.BlogID),
	)
	if h.notifier != nil {
		h.notifier.CommentPending(*bc)
	}
	jsonutil.Created(w, "Comment submitted successfully. It will be visible after approval.", map[string]any{"comment": bc})
}

// ToggleApproval handles PATCH /blog-comments/{id}/toggle-approval.
func (h *Handler) ToggleApproval(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "toggle comment", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogcomments.toggle")
	defer cancel()

	bc, err := h.comments.ToggleApproval(ctx, id)
	if err != nil {
		h.fail(w, r, "toggle comment", err)
		return
	}
	msg := "Comment disapproved successfully"
	if bc.IsApproved {
		msg = "Comment approved successfully"
	}
	jsonutil.OK(w, msg, map[string]any{"comment": bc})
}

// Delete handles DELETE /blog-comments/{id}. Direct replies go with it.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := listquery.ID(r, "id")
	if err != nil {
		h.fail(w, r, "delete comment", err)
		return
	}
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "blogcomments.delete")
	defer cancel()

	n, err := h.comments.Delete(ctx, id)
	if err != nil {
		h.fail(w, r, "delete comment", err)
		return
	}
	h.logger.Info("comment deleted",
		zap.String("id", id.Hex()),
		zap.Int64("removed", n),
	)
	jsonutil.OK(w, "Comment deleted successfully", nil)
}
