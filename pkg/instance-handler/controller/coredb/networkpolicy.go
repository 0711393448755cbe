package coredb

import (
	"context"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/intstr"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

// Namespaces granted access to or from instance namespaces. The
// selectors go through the kubelet-managed kubernetes.io/metadata.name
// label, which cannot be spoofed by namespace owners.
const (
	namespaceMonitoring = "monitoring"
	namespaceCNPG       = "cnpg-system"
	namespaceOperator   = "coredb-operator"
	namespaceTraefik    = "traefik"
	namespaceMinio      = "minio"
)

// reconcileNetworkPolicies applies the namespace isolation set: deny
// everything, then allow DNS, system namespaces, the public internet
// minus private ranges, in-namespace traffic and the API server. The
// API server addresses are read fresh on every pass; control planes
// replace their endpoints without notice.
func (r *CoreDBReconciler) reconcileNetworkPolicies(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	addresses, err := r.kubernetesAPIAddresses(ctx)
	if err != nil {
		return err
	}

	for _, policy := range desiredNetworkPolicies(db.Namespace, addresses) {
		err := r.applyChild(ctx, policy, networkingv1.SchemeGroupVersion.WithKind("NetworkPolicy"))
		if err != nil {
			return fmt.Errorf("failed to apply network policy %s: %w", policy.Name, err)
		}
	}
	return nil
}

// kubernetesAPIAddresses returns the cluster IP of the API server
// Service plus every endpoint address behind it, sorted.
func (r *CoreDBReconciler) kubernetesAPIAddresses(ctx context.Context) ([]string, error) {
	key := types.NamespacedName{Namespace: metav1.NamespaceDefault, Name: "kubernetes"}

	var service corev1.Service
	if err := r.Get(ctx, key, &service); err != nil {
		return nil, fmt.Errorf("failed to get kubernetes service: %w", err)
	}
	if service.Spec.ClusterIP == "" {
		return nil, fmt.Errorf("kubernetes service has no cluster IP")
	}
	addresses := []string{service.Spec.ClusterIP}

	var endpoints corev1.Endpoints
	if err := r.Get(ctx, key, &endpoints); err != nil {
		return nil, fmt.Errorf("failed to get kubernetes endpoints: %w", err)
	}
	if len(endpoints.Subsets) == 0 {
		return nil, fmt.Errorf("kubernetes endpoints has no subsets")
	}
	for _, subset := range endpoints.Subsets {
		for _, address := range subset.Addresses {
			addresses = append(addresses, address.IP)
		}
	}

	sort.Strings(addresses)
	return addresses, nil
}

func desiredNetworkPolicies(namespace string, apiServerAddresses []string) []*networkingv1.NetworkPolicy {
	return []*networkingv1.NetworkPolicy{
		denyAllPolicy(namespace),
		allowDNSPolicy(namespace),
		allowSystemPolicy(namespace),
		allowSystemEgressPolicy(namespace),
		allowInternetPolicy(namespace),
		allowWithinNamespacePolicy(namespace),
		allowKubeAPIPolicy(namespace, apiServerAddresses),
	}
}

// denyAllPolicy blocks all traffic not matched by a sibling policy.
func denyAllPolicy(namespace string) *networkingv1.NetworkPolicy {
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "deny-all",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{
				networkingv1.PolicyTypeEgress,
				networkingv1.PolicyTypeIngress,
			},
		},
	}
}

func allowDNSPolicy(namespace string) *networkingv1.NetworkPolicy {
	dnsPorts := []networkingv1.NetworkPolicyPort{
		policyPort(corev1.ProtocolUDP, 53),
		policyPort(corev1.ProtocolTCP, 53),
	}
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "allow-egress-to-dns",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeEgress},
			Egress: []networkingv1.NetworkPolicyEgressRule{
				{
					To:    []networkingv1.NetworkPolicyPeer{dnsPeer(metav1.NamespaceSystem, "node-local-dns")},
					Ports: dnsPorts,
				},
				{
					To:    []networkingv1.NetworkPolicyPeer{dnsPeer(metav1.NamespaceSystem, "kube-dns")},
					Ports: dnsPorts,
				},
			},
		},
	}
}

// allowSystemPolicy admits ingress from the namespaces running the
// operator, CNPG, monitoring and the ingress proxy.
func allowSystemPolicy(namespace string) *networkingv1.NetworkPolicy {
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "allow-system",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeIngress},
			Ingress: []networkingv1.NetworkPolicyIngressRule{
				{
					From: []networkingv1.NetworkPolicyPeer{
						namespacePeer(namespaceMonitoring),
						namespacePeer(namespaceCNPG),
						namespacePeer(namespaceOperator),
						namespacePeer(namespaceTraefik),
					},
				},
			},
		},
	}
}

func allowSystemEgressPolicy(namespace string) *networkingv1.NetworkPolicy {
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "allow-system-egress",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeEgress},
			Egress: []networkingv1.NetworkPolicyEgressRule{
				{
					To: []networkingv1.NetworkPolicyPeer{namespacePeer(namespaceMinio)},
				},
				{
					To: []networkingv1.NetworkPolicyPeer{namespacePeer(namespaceTraefik)},
					Ports: []networkingv1.NetworkPolicyPort{
						policyPort(corev1.ProtocolTCP, 443),
						policyPort(corev1.ProtocolTCP, 8443),
					},
				},
			},
		},
	}
}

// allowInternetPolicy opens egress to everything except the private
// RFC1918 ranges, which stay reachable only through explicit policies.
func allowInternetPolicy(namespace string) *networkingv1.NetworkPolicy {
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "allow-egress-to-internet",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeEgress},
			Egress: []networkingv1.NetworkPolicyEgressRule{
				{
					To: []networkingv1.NetworkPolicyPeer{
						{
							IPBlock: &networkingv1.IPBlock{
								CIDR: "0.0.0.0/0",
								Except: []string{
									"10.0.0.0/8",
									"172.16.0.0/12",
									"192.168.0.0/16",
								},
							},
						},
					},
				},
			},
		},
	}
}

func allowWithinNamespacePolicy(namespace string) *networkingv1.NetworkPolicy {
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "allow-within-namespace",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{
				networkingv1.PolicyTypeIngress,
				networkingv1.PolicyTypeEgress,
			},
			Ingress: []networkingv1.NetworkPolicyIngressRule{
				{From: []networkingv1.NetworkPolicyPeer{{PodSelector: &metav1.LabelSelector{}}}},
			},
			Egress: []networkingv1.NetworkPolicyEgressRule{
				{To: []networkingv1.NetworkPolicyPeer{{PodSelector: &metav1.LabelSelector{}}}},
			},
		},
	}
}

func allowKubeAPIPolicy(namespace string, addresses []string) *networkingv1.NetworkPolicy {
	peers := make([]networkingv1.NetworkPolicyPeer, 0, len(addresses))
	for _, address := range addresses {
		peers = append(peers, networkingv1.NetworkPolicyPeer{
			IPBlock: &networkingv1.IPBlock{CIDR: fmt.Sprintf("%s/32", address)},
		})
	}
	return &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "allow-kube-api",
			Namespace: namespace,
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeEgress},
			Egress: []networkingv1.NetworkPolicyEgressRule{
				{To: peers},
			},
		},
	}
}

func namespacePeer(name string) networkingv1.NetworkPolicyPeer {
	return networkingv1.NetworkPolicyPeer{
		NamespaceSelector: &metav1.LabelSelector{
			MatchLabels: map[string]string{corev1.LabelMetadataName: name},
		},
	}
}

func dnsPeer(namespace, app string) networkingv1.NetworkPolicyPeer {
	peer := namespacePeer(namespace)
	peer.PodSelector = &metav1.LabelSelector{
		MatchLabels: map[string]string{"k8s-app": app},
	}
	return peer
}

func policyPort(protocol corev1.Protocol, port int32) networkingv1.NetworkPolicyPort {
	p := intstr.FromInt32(port)
	return networkingv1.NetworkPolicyPort{Protocol: &protocol, Port: &p}
}
