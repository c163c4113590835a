package cmd

import (
	"log/slog"

	httpadapter "orderapi/internal/adapters/in/http"
	"orderapi/internal/adapters/in/queue"
	"orderapi/internal/adapters/in/ws"
	"orderapi/internal/adapters/out/geocoding"
	"orderapi/internal/adapters/out/postgres"
	"orderapi/internal/adapters/out/postgres/driverrepo"
	"orderapi/internal/adapters/out/postgres/orderrepo"
	"orderapi/internal/adapters/out/realtime"
	"orderapi/internal/core/application/usecases/commands"
	"orderapi/internal/core/application/usecases/queries"
	"orderapi/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	bus        *realtime.Bus
	geocoder   *geocoding.Client
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		bus:        realtime.NewBus(logger),
		geocoder:   geocoding.NewClient(cfg.GeocoderURL, cfg.GeocoderTimeout, logger),
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) driverUoWFactory() commands.DriverUoWFactory {
	return FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAssignmentPolicy() *commands.AssignmentPolicy {
	return commands.NewAssignmentPolicy(c.orderUoWFactory(), c.driverUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.geocoder, c.logger)
}

func (c *CompositionRoot) CreateCreateDriverCommandHandler() commands.CreateDriverCommandHandler {
	return commands.NewCreateDriverCommandHandler(c.driverUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(
		c.orderUoWFactory(),
		c.driverUoWFactory(),
		c.CreateAssignmentPolicy(),
		c.bus,
		c.logger,
	)
}

func (c *CompositionRoot) CreateSetDriverAvailabilityCommandHandler() commands.SetDriverAvailabilityCommandHandler {
	return commands.NewSetDriverAvailabilityCommandHandler(c.driverUoWFactory(), c.CreateAssignmentPolicy(), c.logger)
}

func (c *CompositionRoot) CreateUpdateDriverLocationCommandHandler() commands.UpdateDriverLocationCommandHandler {
	return commands.NewUpdateDriverLocationCommandHandler(c.driverUoWFactory(), c.bus, c.logger)
}

func (c *CompositionRoot) CreateOfferPreparedOrdersCommandHandler() commands.OfferPreparedOrdersCommandHandler {
	return commands.NewOfferPreparedOrdersCommandHandler(c.orderUoWFactory(), c.CreateAssignmentPolicy(), c.logger)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetAvailableOrdersQueryHandler() queries.GetAvailableOrdersQueryHandler {
	return queries.NewGetAvailableOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetDriverQueryHandler() queries.GetDriverQueryHandler {
	return queries.NewGetDriverQueryHandler(driverrepo.NewGormDriverRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetAvailableDriversQueryHandler() queries.GetAvailableDriversQueryHandler {
	return queries.NewGetAvailableDriversQueryHandler(driverrepo.NewGormDriverRepository(c.gormDB))
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		UpdateOrderStatus:     c.CreateUpdateOrderStatusCommandHandler(),
		SetDriverAvailability: c.CreateSetDriverAvailabilityCommandHandler(),
		UpdateDriverLocation:  c.CreateUpdateDriverLocationCommandHandler(),
		GetOrders:             c.CreateGetOrdersQueryHandler(),
		GetOrder:              c.CreateGetOrderQueryHandler(),
		GetAvailableOrders:    c.CreateGetAvailableOrdersQueryHandler(),
		GetDriver:             c.CreateGetDriverQueryHandler(),
		GetAvailableDrivers:   c.CreateGetAvailableDriversQueryHandler(),
	}, c.logger)
}

func (c *CompositionRoot) CreateWebSocketHandler() *ws.Handler {
	return ws.NewHandler(c.bus, c.cfg.WSSendBuffer, c.logger)
}

func (c *CompositionRoot) CreateOrderConsumer(broker queue.Broker) *queue.Consumer {
	handler := queue.NewOrderEventsHandler(c.CreateCreateOrderCommandHandler(), c.bus, c.logger)
	return queue.NewConsumer(broker, c.cfg.OrdersQueue, handler, c.logger)
}

func (c *CompositionRoot) CreateDriverConsumer(broker queue.Broker) *queue.Consumer {
	handler := queue.NewDriverEventsHandler(c.CreateCreateDriverCommandHandler(), c.logger)
	return queue.NewConsumer(broker, c.cfg.DriversQueue, handler, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateOfferPreparedOrdersCommandHandler(), c.cfg.OfferSchedule, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}
