package api

import (
	"context"

	"snowpool/internal/models"
	"snowpool/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// MarketplaceClient calls the marketplace over a gRPC connection using the JSON codec.
type MarketplaceClient struct {
	cc           grpc.ClientConnInterface
	callerHeader string
}

func NewMarketplaceClient(cc grpc.ClientConnInterface, callerHeader string) *MarketplaceClient {
	if callerHeader == "" {
		callerHeader = models.DefaultCallerHeader
	}
	return &MarketplaceClient{cc: cc, callerHeader: callerHeader}
}

// AsCaller attaches the caller identity to outgoing requests made with the returned context.
func (c *MarketplaceClient) AsCaller(ctx context.Context, callerID string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, c.callerHeader, callerID)
}

func (c *MarketplaceClient) invoke(ctx context.Context, method string, in, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(jsonCodecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+marketplaceServiceName+"/"+method, in, out, opts...)
}

func (c *MarketplaceClient) ListPostalAreas(ctx context.Context, opts ...grpc.CallOption) (*PostalAreasResponse, error) {
	out := new(PostalAreasResponse)
	if err := c.invoke(ctx, "ListPostalAreas", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) CurrentDemand(ctx context.Context, in *PostalCodeRequest, opts ...grpc.CallOption) (*service.AreaDemand, error) {
	out := new(service.AreaDemand)
	if err := c.invoke(ctx, "CurrentDemand", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) SubmitServiceRequest(ctx context.Context, in *models.ServiceRequestInput, opts ...grpc.CallOption) (*models.ServiceRequest, error) {
	out := new(models.ServiceRequest)
	if err := c.invoke(ctx, "SubmitServiceRequest", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) UpdateServiceRequestStatus(ctx context.Context, in *StatusUpdateRequest, opts ...grpc.CallOption) (*models.ServiceRequest, error) {
	out := new(models.ServiceRequest)
	if err := c.invoke(ctx, "UpdateServiceRequestStatus", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) SubmitOperatorService(ctx context.Context, in *models.OperatorServiceInput, opts ...grpc.CallOption) (*models.OperatorService, error) {
	out := new(models.OperatorService)
	if err := c.invoke(ctx, "SubmitOperatorService", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) CreateBooking(ctx context.Context, in *models.BookingInput, opts ...grpc.CallOption) (*models.Booking, error) {
	out := new(models.Booking)
	if err := c.invoke(ctx, "CreateBooking", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) ActiveBookingCount(ctx context.Context, in *AreaDateRequest, opts ...grpc.CallOption) (*models.PostalAreaBookingCount, error) {
	out := new(models.PostalAreaBookingCount)
	if err := c.invoke(ctx, "ActiveBookingCount", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) Quote(ctx context.Context, in *QuoteRequest, opts ...grpc.CallOption) (*service.Quote, error) {
	out := new(service.Quote)
	if err := c.invoke(ctx, "Quote", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketplaceClient) Stats(ctx context.Context, opts ...grpc.CallOption) (*models.DirectoryStats, error) {
	out := new(models.DirectoryStats)
	if err := c.invoke(ctx, "Stats", &Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
