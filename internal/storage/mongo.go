package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ona-rest/ona/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const newsCollection = "news"

// articleDocument is the persisted form of models.Article
type articleDocument struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	Title         models.LocalizedText `bson:"title"`
	Excerpt       models.LocalizedText `bson:"excerpt"`
	Content       models.LocalizedText `bson:"content"`
	Image         string               `bson:"image"`
	ImagePublicID string               `bson:"imagePublicId"`
	Published     bool                 `bson:"published"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d articleDocument) toModel() models.Article {
	return models.Article{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Excerpt:       d.Excerpt,
		Content:       d.Content,
		Image:         d.Image,
		ImagePublicID: d.ImagePublicID,
		Published:     d.Published,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// MongoStore stores articles in a MongoDB collection
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to MongoDB and verifies the connection
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(newsCollection),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// EnsureIndexes creates the index backing the published listing
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create news index: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, filter Filter) ([]models.Article, error) {
	query := bson.M{}
	if filter.PublishedOnly {
		query["published"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}

	cursor, err := s.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	var docs []articleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode articles: %w", err)
	}

	articles := make([]models.Article, 0, len(docs))
	for _, d := range docs {
		articles = append(articles, d.toModel())
	}
	return articles, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*models.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc articleDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load article %s: %w", id, err)
	}

	article := doc.toModel()
	return &article, nil
}

func (s *MongoStore) Create(ctx context.Context, a *models.Article) error {
	now := s.now()
	doc := articleDocument{
		ID:            primitive.NewObjectID(),
		Title:         a.Title,
		Excerpt:       a.Excerpt,
		Content:       a.Content,
		Image:         a.Image,
		ImagePublicID: a.ImagePublicID,
		Published:     a.Published,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	*a = doc.toModel()
	return nil
}

func (s *MongoStore) Update(ctx context.Context, id string, patch models.ArticlePatch) (*models.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := patchDocument(patch)
	set["updatedAt"] = s.now()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc articleDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update article %s: %w", id, err)
	}

	article := doc.toModel()
	return &article, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete article %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close disconnects the client
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// patchDocument maps the fields present in the patch to their bson names
func patchDocument(p models.ArticlePatch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Excerpt != nil {
		set["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		set["content"] = *p.Content
	}
	if p.Image != nil {
		set["image"] = *p.Image
	}
	if p.ImagePublicID != nil {
		set["imagePublicId"] = *p.ImagePublicID
	}
	if p.Published != nil {
		set["published"] = *p.Published
	}
	return set
}
