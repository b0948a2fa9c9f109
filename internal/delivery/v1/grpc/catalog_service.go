package grpc

import (
	"context"
	"time"

	"github.com/DRSN-tech/giftshop-backend/internal/domain"
	"github.com/DRSN-tech/giftshop-backend/internal/usecase"
	"github.com/DRSN-tech/giftshop-backend/pkg/e"
	"github.com/DRSN-tech/giftshop-backend/pkg/logger"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const catalogServiceName = "catalog.v1.CatalogService"

// CatalogServiceServer — чтения витрины для внутренних сервисов.
// Сообщения передаются как google.protobuf.Struct с теми же полями, что и в HTTP API.
type CatalogServiceServer interface {
	ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var CatalogServiceDesc = grpc.ServiceDesc{
	ServiceName: catalogServiceName,
	HandlerType: (*CatalogServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListProducts", Handler: unaryHandler("ListProducts", CatalogServiceServer.ListProducts)},
		{MethodName: "GetProducts", Handler: unaryHandler("GetProducts", CatalogServiceServer.GetProducts)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "catalog/v1/catalog.proto",
}

func unaryHandler(
	method string,
	call func(CatalogServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		if interceptor == nil {
			return call(srv.(CatalogServiceServer), ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + catalogServiceName + "/" + method}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(CatalogServiceServer), ctx, req.(*structpb.Struct))
		})
	}
}

type CatalogService struct {
	catalogUC usecase.CatalogUC
	logger    logger.Logger
}

func NewCatalogService(catalogUC usecase.CatalogUC, logger logger.Logger) *CatalogService {
	return &CatalogService{catalogUC: catalogUC, logger: logger}
}

// ListProducts: {category, tag} -> {items, failed}.
func (g *CatalogService) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ListProducts"

	categoryID, err := domain.ParseCategoryFilter(stringField(req, "category"))
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	state := g.catalogUC.ListProducts(ctx, domain.PublicQuery(categoryID, stringField(req, "tag")))

	res, err := structpb.NewStruct(map[string]any{
		"items":  toProductValues(state.Items),
		"failed": state.Failed,
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

// GetProducts: {ids} -> {products, not_found_products}.
func (g *CatalogService) GetProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetProducts"

	ids, err := uuidList(req, "ids")
	if err != nil {
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	found, err := g.catalogUC.GetProducts(ctx, ids)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	notFound := make([]any, len(found.NotFoundProducts))
	for i, id := range found.NotFoundProducts {
		notFound[i] = id.String()
	}

	res, err := structpb.NewStruct(map[string]any{
		"products":           toProductValues(found.Products),
		"not_found_products": notFound,
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	return res, nil
}

func toProductValue(p *domain.Product) map[string]any {
	v := map[string]any{
		"id":               p.ID.String(),
		"name":             p.Name,
		"description":      p.Description,
		"price":            p.Price.StringFixed(2),
		"discount_percent": float64(p.Discount()),
		"main_image":       p.MainImage(),
		"images":           toAnyStrings(p.Images),
		"tags":             toAnyStrings(p.Tags),
		"status":           string(p.Status),
		"created_at":       p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.CategoryID != nil {
		v["category_id"] = p.CategoryID.String()
	}
	if p.OfferPrice != nil {
		v["offer_price"] = p.OfferPrice.StringFixed(2)
	}

	return v
}

func toProductValues(products []domain.Product) []any {
	res := make([]any, len(products))
	for i := range products {
		res[i] = toProductValue(&products[i])
	}

	return res
}

func toAnyStrings(values []string) []any {
	res := make([]any, len(values))
	for i, v := range values {
		res[i] = v
	}

	return res
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}

	return s.GetFields()[key].GetStringValue()
}

func uuidList(s *structpb.Struct, key string) ([]uuid.UUID, error) {
	values := s.GetFields()[key].GetListValue().GetValues()
	if len(values) == 0 {
		return nil, e.ErrMissingFields
	}

	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v.GetStringValue())
		if err != nil {
			return nil, e.NewFieldError(key, e.ErrInvalidID)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
