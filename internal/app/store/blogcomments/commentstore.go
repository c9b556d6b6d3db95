// internal/app/store/blogcomments/commentstore.go
package commentstore

import (
	"context"
	"strings"
	"time"

	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the blog comments collection.
const CollectionName = "blog_comments"

// DefaultAdminLimit is the admin listing page size when none is given.
const DefaultAdminLimit = 50

const blogsCollection = "blogs"

// Store provides access to the blog_comments collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new comment store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// CreateInput contains the input for a reader comment.
type CreateInput struct {
	BlogID   primitive.ObjectID
	ParentID *primitive.ObjectID
	Name     string
	Email    string
	Comment  string
}

// Create stores a new comment awaiting moderation. Email is lowercased.
func (s *Store) Create(ctx context.Context, in CreateInput) (*models.BlogComment, error) {
	now := time.Now().UTC()
	bc := models.BlogComment{
		ID:         primitive.NewObjectID(),
		BlogID:     in.BlogID,
		ParentID:   in.ParentID,
		Name:       strings.TrimSpace(in.Name),
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Comment:    strings.TrimSpace(in.Comment),
		IsApproved: false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// GetByID returns the comment with id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.BlogComment, error) {
	var bc models.BlogComment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// Thread returns the approved top-level comments of a blog, newest first,
// each carrying its approved direct replies oldest first.
func (s *Store) Thread(ctx context.Context, blogID primitive.ObjectID) ([]models.CommentThread, error) {
	var top []models.BlogComment
	if err := s.find(ctx, bson.M{
		"blog_id":     blogID,
		"is_approved": true,
		"parent_id":   nil,
	}, bson.D{{Key: "created_at", Value: -1}}, &top); err != nil {
		return nil, err
	}

	out := make([]models.CommentThread, 0, len(top))
	if len(top) == 0 {
		return out, nil
	}

	ids := make([]primitive.ObjectID, len(top))
	for i, c := range top {
		ids[i] = c.ID
	}
	var replies []models.BlogComment
	if err := s.find(ctx, bson.M{
		"parent_id":   bson.M{"$in": ids},
		"is_approved": true,
	}, bson.D{{Key: "created_at", Value: 1}}, &replies); err != nil {
		return nil, err
	}

	byParent := make(map[primitive.ObjectID][]models.BlogComment, len(top))
	for _, r := range replies {
		byParent[*r.ParentID] = append(byParent[*r.ParentID], r)
	}
	for _, c := range top {
		rs := byParent[c.ID]
		if rs == nil {
			rs = []models.BlogComment{}
		}
		out = append(out, models.CommentThread{BlogComment: c, Replies: rs})
	}
	return out, nil
}

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D, out *[]models.BlogComment) error {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	return cur.All(ctx, out)
}

// AdminFilter narrows the moderation listing.
type AdminFilter struct {
	BlogID     *primitive.ObjectID
	IsApproved *bool
	Page       storeutil.Page
}

// commentRow is a comment joined with the summary of its blog.
type commentRow struct {
	models.BlogComment `bson:",inline"`
	Blog               *models.BlogSummary `bson:"blog"`
}

// AdminList returns one page of comments, newest first, approved or not,
// each with a summary of the blog it belongs to. The blog summary is nil
// when the blog has been deleted.
func (s *Store) AdminList(ctx context.Context, f AdminFilter) ([]models.CommentWithBlog, storeutil.Pagination, error) {
	match := bson.M{}
	if f.BlogID != nil {
		match["blog_id"] = *f.BlogID
	}
	if f.IsApproved != nil {
		match["is_approved"] = *f.IsApproved
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$skip", Value: (f.Page.Page - 1) * f.Page.Limit}},
		{{Key: "$limit", Value: f.Page.Limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         blogsCollection,
			"localField":   "blog_id",
			"foreignField": "_id",
			"pipeline":     bson.A{bson.M{"$project": bson.M{"title": 1, "slug": 1}}},
			"as":           "blog",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$blog", "preserveNullAndEmptyArrays": true}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}
	defer cur.Close(ctx)

	var rows []commentRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, storeutil.Pagination{}, err
	}
	total, err := s.c.CountDocuments(ctx, match)
	if err != nil {
		return nil, storeutil.Pagination{}, err
	}

	out := make([]models.CommentWithBlog, len(rows))
	for i, r := range rows {
		out[i] = models.CommentWithBlog{BlogComment: r.BlogComment, Blog: r.Blog}
	}
	return out, storeutil.NewPagination(f.Page, total), nil
}

// ToggleApproval flips is_approved and returns the updated comment.
func (s *Store) ToggleApproval(ctx context.Context, id primitive.ObjectID) (*models.BlogComment, error) {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"is_approved": bson.M{"$not": bson.A{"$is_approved"}},
			"updated_at":  time.Now().UTC(),
		}}},
	}
	var bc models.BlogComment
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&bc); err != nil {
		return nil, err
	}
	return &bc, nil
}

// Delete removes the comment with id and its direct replies, returning the
// number of documents removed. Replies to replies are not followed.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"_id": id},
		bson.M{"parent_id": id},
	}})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount == 0 {
		return 0, storeutil.ErrNotFound
	}
	return res.DeletedCount, nil
}
