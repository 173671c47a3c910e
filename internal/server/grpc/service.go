package grpc

import (
	"context"

	"github.com/dmitrijs2005/hypesale/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = common.SaleServiceName

// SaleServiceServer is the server API for hypesale.v1.SaleService. Every
// request and response is a google.protobuf.Struct.
type SaleServiceServer interface {
	Status(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VestingInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ReferralStats(context.Context, *structpb.Struct) (*structpb.Struct, error)
	PendingRewards(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Referees(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Events(context.Context, *structpb.Struct) (*structpb.Struct, error)

	RegisterReferral(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Purchase(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordPurchase(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClaimTokens(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ClaimRewards(context.Context, *structpb.Struct) (*structpb.Struct, error)

	SetBlacklisted(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeactivateAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetSaleContract(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Pause(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Unpause(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TransferOwnership(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportAuditLog(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// publicMethods may be called without an access token.
var publicMethods = map[string]bool{
	fullMethod("Status"):         true,
	fullMethod("VestingInfo"):    true,
	fullMethod("ReferralStats"):  true,
	fullMethod("PendingRewards"): true,
	fullMethod("Referees"):       true,
	fullMethod("Events"):         true,
}

func fullMethod(name string) string {
	return "/" + serviceName + "/" + name
}

type unaryFunc func(SaleServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryFunc) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SaleServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(SaleServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var saleServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*SaleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Status", SaleServiceServer.Status),
		unary("VestingInfo", SaleServiceServer.VestingInfo),
		unary("ReferralStats", SaleServiceServer.ReferralStats),
		unary("PendingRewards", SaleServiceServer.PendingRewards),
		unary("Referees", SaleServiceServer.Referees),
		unary("Events", SaleServiceServer.Events),
		unary("RegisterReferral", SaleServiceServer.RegisterReferral),
		unary("Purchase", SaleServiceServer.Purchase),
		unary("RecordPurchase", SaleServiceServer.RecordPurchase),
		unary("ClaimTokens", SaleServiceServer.ClaimTokens),
		unary("ClaimRewards", SaleServiceServer.ClaimRewards),
		unary("SetBlacklisted", SaleServiceServer.SetBlacklisted),
		unary("DeactivateAccount", SaleServiceServer.DeactivateAccount),
		unary("SetSaleContract", SaleServiceServer.SetSaleContract),
		unary("Pause", SaleServiceServer.Pause),
		unary("Unpause", SaleServiceServer.Unpause),
		unary("TransferOwnership", SaleServiceServer.TransferOwnership),
		unary("ExportAuditLog", SaleServiceServer.ExportAuditLog),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hypesale/v1/sale.proto",
}

// RegisterSaleServiceServer registers srv on s.
func RegisterSaleServiceServer(s grpc.ServiceRegistrar, srv SaleServiceServer) {
	s.RegisterService(&saleServiceDesc, srv)
}
