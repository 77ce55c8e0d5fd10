package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"linkup-go/internal/model"
	"linkup-go/pkg/logger"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

const postsMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 0
	},
	"mappings": {
		"properties": {
			"id": {"type": "long"},
			"author_id": {"type": "long"},
			"content": {"type": "text"},
			"like_count": {"type": "long"},
			"comment_count": {"type": "long"},
			"created_at": {"type": "date", "format": "strict_date_optional_time||epoch_millis"}
		}
	}
}`

// PostDoc posts 索引中的文档
type PostDoc struct {
	ID           int64  `json:"id"`
	AuthorID     int64  `json:"author_id"`
	Content      string `json:"content"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	CreatedAt    string `json:"created_at"`
}

func toPostDoc(p *model.Post) *PostDoc {
	return &PostDoc{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		Content:      p.Content,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PostIndex 帖子全文索引
type PostIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewPostIndex(es *elasticsearch.Client, index string) *PostIndex {
	return &PostIndex{es: es, index: index}
}

// EnsureIndex 索引不存在则按 mapping 创建
func (p *PostIndex) EnsureIndex(ctx context.Context) error {
	resp, err := p.es.Indices.Exists([]string{p.index}, p.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode == 200 {
		return nil
	}

	resp, err = p.es.Indices.Create(
		p.index,
		p.es.Indices.Create.WithContext(ctx),
		p.es.Indices.Create.WithBody(strings.NewReader(postsMapping)),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return fmt.Errorf("create index failed: %s", resp.String())
	}

	logger.Info("Elasticsearch posts index created", zap.String("index", p.index))
	return nil
}

// IndexPost 写入或覆盖单个帖子
func (p *PostIndex) IndexPost(ctx context.Context, post *model.Post) error {
	body, err := json.Marshal(toPostDoc(post))
	if err != nil {
		return err
	}

	resp, err := p.es.Index(
		p.index,
		bytes.NewReader(body),
		p.es.Index.WithContext(ctx),
		p.es.Index.WithDocumentID(strconv.FormatInt(post.ID, 10)),
	)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return fmt.Errorf("index document failed: %s", resp.String())
	}
	return nil
}

// SearchPosts 全文检索，返回命中的帖子 ID（按相关度）和总数
func (p *PostIndex) SearchPosts(ctx context.Context, keyword string, from, size int) ([]int64, int64, error) {
	query := map[string]interface{}{
		"from": from,
		"size": size,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"content": map[string]interface{}{
					"query":    keyword,
					"operator": "and",
				},
			},
		},
		"sort":    []interface{}{"_score", map[string]interface{}{"id": "desc"}},
		"_source": []string{"id"},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, 0, err
	}

	resp, err := p.es.Search(
		p.es.Search.WithContext(ctx),
		p.es.Search.WithIndex(p.index),
		p.es.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return nil, 0, fmt.Errorf("search failed: %s", resp.String())
	}

	var esResp struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&esResp); err != nil {
		return nil, 0, err
	}

	ids := make([]int64, 0, len(esResp.Hits.Hits))
	for _, h := range esResp.Hits.Hits {
		ids = append(ids, h.Source.ID)
	}
	return ids, esResp.Hits.Total.Value, nil
}

// BulkIndex 批量写入，返回成功与失败条数
func (p *PostIndex) BulkIndex(ctx context.Context, posts []model.Post) (success, failed int, err error) {
	var buf bytes.Buffer
	for i := range posts {
		doc, err := json.Marshal(toPostDoc(&posts[i]))
		if err != nil {
			return 0, len(posts), err
		}
		fmt.Fprintf(&buf, `{"index":{"_index":%q,"_id":"%d"}}`+"\n", p.index, posts[i].ID)
		buf.Write(doc)
		buf.WriteByte('\n')
	}
	if buf.Len() == 0 {
		return 0, 0, nil
	}

	resp, err := p.es.Bulk(bytes.NewReader(buf.Bytes()), p.es.Bulk.WithContext(ctx))
	if err != nil {
		return 0, len(posts), err
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return 0, len(posts), fmt.Errorf("bulk failed: %s", resp.String())
	}

	var bulkResp struct {
		Items []struct {
			Index struct {
				Status int `json:"status"`
			} `json:"index"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulkResp); err != nil {
		return 0, len(posts), err
	}
	for _, item := range bulkResp.Items {
		if item.Index.Status >= 200 && item.Index.Status < 300 {
			success++
		} else {
			failed++
		}
	}
	return success, failed, nil
}
