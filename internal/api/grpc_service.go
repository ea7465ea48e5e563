package api

import (
	"context"

	"snowpool/internal/models"
	"snowpool/internal/service"

	"google.golang.org/grpc"
)

const marketplaceServiceName = "snowpool.marketplace.v1.MarketplaceService"

// MarketplaceServiceServer is the gRPC surface of the marketplace.
type MarketplaceServiceServer interface {
	ListPostalAreas(context.Context, *Empty) (*PostalAreasResponse, error)
	GetPostalArea(context.Context, *PostalCodeRequest) (*models.PostalArea, error)
	CurrentDemand(context.Context, *PostalCodeRequest) (*service.AreaDemand, error)
	SubmitServiceRequest(context.Context, *models.ServiceRequestInput) (*models.ServiceRequest, error)
	GetServiceRequest(context.Context, *IDRequest) (*models.ServiceRequest, error)
	ListServiceRequests(context.Context, *PostalCodeRequest) (*ServiceRequestsResponse, error)
	UpdateServiceRequestStatus(context.Context, *StatusUpdateRequest) (*models.ServiceRequest, error)
	SubmitOperatorService(context.Context, *models.OperatorServiceInput) (*models.OperatorService, error)
	GetOperatorService(context.Context, *IDRequest) (*models.OperatorService, error)
	ListOperatorServices(context.Context, *PostalCodeRequest) (*OperatorServicesResponse, error)
	SetOperatorAvailability(context.Context, *AvailabilityRequest) (*models.OperatorService, error)
	CreateBooking(context.Context, *models.BookingInput) (*models.Booking, error)
	GetBooking(context.Context, *IDRequest) (*models.Booking, error)
	ListBookings(context.Context, *Empty) (*BookingsResponse, error)
	ListActiveBookings(context.Context, *AreaDateRequest) (*BookingsResponse, error)
	ActiveBookingCount(context.Context, *AreaDateRequest) (*models.PostalAreaBookingCount, error)
	ListBookingCounts(context.Context, *Empty) (*BookingCountsResponse, error)
	Quote(context.Context, *QuoteRequest) (*service.Quote, error)
	Stats(context.Context, *Empty) (*models.DirectoryStats, error)
}

// unaryMethod adapts a typed handler to grpc.MethodDesc, decoding the request with the
// connection codec and running it through the server interceptor.
func unaryMethod[Req any](name string, call func(MarketplaceServiceServer, context.Context, *Req) (any, error)) grpc.MethodDesc {
	fullMethod := "/" + marketplaceServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			server := srv.(MarketplaceServiceServer)
			if interceptor == nil {
				return call(server, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(server, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var marketplaceServiceDesc = grpc.ServiceDesc{
	ServiceName: marketplaceServiceName,
	HandlerType: (*MarketplaceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("ListPostalAreas", func(s MarketplaceServiceServer, ctx context.Context, in *Empty) (any, error) {
			return s.ListPostalAreas(ctx, in)
		}),
		unaryMethod("GetPostalArea", func(s MarketplaceServiceServer, ctx context.Context, in *PostalCodeRequest) (any, error) {
			return s.GetPostalArea(ctx, in)
		}),
		unaryMethod("CurrentDemand", func(s MarketplaceServiceServer, ctx context.Context, in *PostalCodeRequest) (any, error) {
			return s.CurrentDemand(ctx, in)
		}),
		unaryMethod("SubmitServiceRequest", func(s MarketplaceServiceServer, ctx context.Context, in *models.ServiceRequestInput) (any, error) {
			return s.SubmitServiceRequest(ctx, in)
		}),
		unaryMethod("GetServiceRequest", func(s MarketplaceServiceServer, ctx context.Context, in *IDRequest) (any, error) {
			return s.GetServiceRequest(ctx, in)
		}),
		unaryMethod("ListServiceRequests", func(s MarketplaceServiceServer, ctx context.Context, in *PostalCodeRequest) (any, error) {
			return s.ListServiceRequests(ctx, in)
		}),
		unaryMethod("UpdateServiceRequestStatus", func(s MarketplaceServiceServer, ctx context.Context, in *StatusUpdateRequest) (any, error) {
			return s.UpdateServiceRequestStatus(ctx, in)
		}),
		unaryMethod("SubmitOperatorService", func(s MarketplaceServiceServer, ctx context.Context, in *models.OperatorServiceInput) (any, error) {
			return s.SubmitOperatorService(ctx, in)
		}),
		unaryMethod("GetOperatorService", func(s MarketplaceServiceServer, ctx context.Context, in *IDRequest) (any, error) {
			return s.GetOperatorService(ctx, in)
		}),
		unaryMethod("ListOperatorServices", func(s MarketplaceServiceServer, ctx context.Context, in *PostalCodeRequest) (any, error) {
			return s.ListOperatorServices(ctx, in)
		}),
		unaryMethod("SetOperatorAvailability", func(s MarketplaceServiceServer, ctx context.Context, in *AvailabilityRequest) (any, error) {
			return s.SetOperatorAvailability(ctx, in)
		}),
		unaryMethod("CreateBooking", func(s MarketplaceServiceServer, ctx context.Context, in *models.BookingInput) (any, error) {
			return s.CreateBooking(ctx, in)
		}),
		unaryMethod("GetBooking", func(s MarketplaceServiceServer, ctx context.Context, in *IDRequest) (any, error) {
			return s.GetBooking(ctx, in)
		}),
		unaryMethod("ListBookings", func(s MarketplaceServiceServer, ctx context.Context, in *Empty) (any, error) {
			return s.ListBookings(ctx, in)
		}),
		unaryMethod("ListActiveBookings", func(s MarketplaceServiceServer, ctx context.Context, in *AreaDateRequest) (any, error) {
			return s.ListActiveBookings(ctx, in)
		}),
		unaryMethod("ActiveBookingCount", func(s MarketplaceServiceServer, ctx context.Context, in *AreaDateRequest) (any, error) {
			return s.ActiveBookingCount(ctx, in)
		}),
		unaryMethod("ListBookingCounts", func(s MarketplaceServiceServer, ctx context.Context, in *Empty) (any, error) {
			return s.ListBookingCounts(ctx, in)
		}),
		unaryMethod("Quote", func(s MarketplaceServiceServer, ctx context.Context, in *QuoteRequest) (any, error) {
			return s.Quote(ctx, in)
		}),
		unaryMethod("Stats", func(s MarketplaceServiceServer, ctx context.Context, in *Empty) (any, error) {
			return s.Stats(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "snowpool/marketplace/v1/marketplace.json",
}

// RegisterMarketplaceServiceServer attaches srv to the gRPC registrar.
func RegisterMarketplaceServiceServer(s grpc.ServiceRegistrar, srv MarketplaceServiceServer) {
	s.RegisterService(&marketplaceServiceDesc, srv)
}

// marketplaceService implements MarketplaceServiceServer on top of the marketplace.
type marketplaceService struct {
	market       *service.Marketplace
	callerHeader string
}

func newMarketplaceService(market *service.Marketplace, callerHeader string) *marketplaceService {
	return &marketplaceService{market: market, callerHeader: callerHeader}
}

func (s *marketplaceService) caller(ctx context.Context) models.Caller {
	return callerFromContext(ctx, s.callerHeader)
}

func (s *marketplaceService) ListPostalAreas(ctx context.Context, _ *Empty) (*PostalAreasResponse, error) {
	areas, err := s.market.ListPostalAreas(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &PostalAreasResponse{PostalAreas: areas}, nil
}

func (s *marketplaceService) GetPostalArea(ctx context.Context, in *PostalCodeRequest) (*models.PostalArea, error) {
	area, err := s.market.GetPostalArea(ctx, in.PostalCode)
	return area, grpcError(err)
}

func (s *marketplaceService) CurrentDemand(ctx context.Context, in *PostalCodeRequest) (*service.AreaDemand, error) {
	demand, err := s.market.CurrentDemand(ctx, in.PostalCode)
	if err != nil {
		return nil, grpcError(err)
	}
	return &service.AreaDemand{PostalCode: in.PostalCode, CurrentDemand: demand}, nil
}

func (s *marketplaceService) SubmitServiceRequest(ctx context.Context, in *models.ServiceRequestInput) (*models.ServiceRequest, error) {
	req, err := s.market.SubmitServiceRequest(ctx, s.caller(ctx), *in)
	return req, grpcError(err)
}

func (s *marketplaceService) GetServiceRequest(ctx context.Context, in *IDRequest) (*models.ServiceRequest, error) {
	req, err := s.market.GetServiceRequest(ctx, in.ID)
	return req, grpcError(err)
}

func (s *marketplaceService) ListServiceRequests(ctx context.Context, in *PostalCodeRequest) (*ServiceRequestsResponse, error) {
	requests, err := s.market.ListServiceRequests(ctx, in.PostalCode)
	if err != nil {
		return nil, grpcError(err)
	}
	return &ServiceRequestsResponse{ServiceRequests: requests}, nil
}

func (s *marketplaceService) UpdateServiceRequestStatus(ctx context.Context, in *StatusUpdateRequest) (*models.ServiceRequest, error) {
	req, err := s.market.UpdateServiceRequestStatus(ctx, s.caller(ctx), in.ID, in.Status)
	return req, grpcError(err)
}

func (s *marketplaceService) SubmitOperatorService(ctx context.Context, in *models.OperatorServiceInput) (*models.OperatorService, error) {
	svc, err := s.market.SubmitOperatorService(ctx, s.caller(ctx), *in)
	return svc, grpcError(err)
}

func (s *marketplaceService) GetOperatorService(ctx context.Context, in *IDRequest) (*models.OperatorService, error) {
	svc, err := s.market.GetOperatorService(ctx, in.ID)
	return svc, grpcError(err)
}

func (s *marketplaceService) ListOperatorServices(ctx context.Context, in *PostalCodeRequest) (*OperatorServicesResponse, error) {
	services, err := s.market.ListOperatorServices(ctx, in.PostalCode)
	if err != nil {
		return nil, grpcError(err)
	}
	return &OperatorServicesResponse{OperatorServices: services}, nil
}

func (s *marketplaceService) SetOperatorAvailability(ctx context.Context, in *AvailabilityRequest) (*models.OperatorService, error) {
	svc, err := s.market.SetOperatorAvailability(ctx, s.caller(ctx), in.ID, in.Available)
	return svc, grpcError(err)
}

func (s *marketplaceService) CreateBooking(ctx context.Context, in *models.BookingInput) (*models.Booking, error) {
	booking, err := s.market.CreateBooking(ctx, s.caller(ctx), *in)
	return booking, grpcError(err)
}

func (s *marketplaceService) GetBooking(ctx context.Context, in *IDRequest) (*models.Booking, error) {
	booking, err := s.market.GetBooking(ctx, in.ID)
	return booking, grpcError(err)
}

func (s *marketplaceService) ListBookings(ctx context.Context, _ *Empty) (*BookingsResponse, error) {
	bookings, err := s.market.ListBookings(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &BookingsResponse{Bookings: bookings}, nil
}

func (s *marketplaceService) ListActiveBookings(ctx context.Context, in *AreaDateRequest) (*BookingsResponse, error) {
	bookings, err := s.market.ListActiveBookings(ctx, in.PostalCode, in.Date)
	if err != nil {
		return nil, grpcError(err)
	}
	return &BookingsResponse{Bookings: bookings}, nil
}

func (s *marketplaceService) ActiveBookingCount(ctx context.Context, in *AreaDateRequest) (*models.PostalAreaBookingCount, error) {
	count, err := s.market.ActiveBookingCount(ctx, in.PostalCode, in.Date)
	if err != nil {
		return nil, grpcError(err)
	}
	return &models.PostalAreaBookingCount{PostalCode: in.PostalCode, BookingDate: in.Date, ActiveBookingsCount: count}, nil
}

func (s *marketplaceService) ListBookingCounts(ctx context.Context, _ *Empty) (*BookingCountsResponse, error) {
	counts, err := s.market.ListBookingCounts(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &BookingCountsResponse{Counts: counts}, nil
}

func (s *marketplaceService) Quote(ctx context.Context, in *QuoteRequest) (*service.Quote, error) {
	quote, err := s.market.Quote(ctx, in.PostalCode, in.YardSizeCategory)
	return quote, grpcError(err)
}

func (s *marketplaceService) Stats(ctx context.Context, _ *Empty) (*models.DirectoryStats, error) {
	stats, err := s.market.Stats(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return &stats, nil
}
